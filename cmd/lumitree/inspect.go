package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func inspectModel(cmd *cobra.Command, _ []string) error {
	cfg, m, err := modelFor(cmd)
	if err != nil {
		return err
	}

	src := "synthetic"
	if cfg.Topology.Graph != "" {
		src = cfg.Topology.Graph
	}
	maxDist := 0.0
	for _, d := range m.Distances() {
		maxDist = max(maxDist, d)
	}
	summary := [][]string{
		{"source", src},
		{"leds", strconv.Itoa(m.NumLEDs())},
		{"nodes", strconv.Itoa(m.NumNodes())},
		{"roots", strconv.Itoa(len(m.Roots()))},
		{"addresses", strconv.FormatBool(m.HasAddresses())},
		{"max distance", fmt.Sprintf("%.3f", maxDist)},
	}
	if m.HasAddresses() {
		summary = append(summary,
			[]string{"trees", strconv.Itoa(m.NumTrees())},
			[]string{"max height", strconv.Itoa(m.MaxHeight())},
		)
	}
	fmt.Println(renderTable([]string{"PROPERTY", "VALUE"}, summary, []columnAlignment{alignLeft, alignRight}))

	if !m.HasAddresses() {
		return nil
	}
	perHeight := map[int]int{}
	perTree := map[int]int{}
	for i := 0; i < m.NumLEDs(); i++ {
		perHeight[m.Height(i)]++
		perTree[m.Tree(i)]++
	}
	fmt.Println(renderTable([]string{"HEIGHT", "LEDS"}, countRows(perHeight), []columnAlignment{alignRight, alignRight}))
	fmt.Println(renderTable([]string{"TREE", "LEDS"}, countRows(perTree), []columnAlignment{alignRight, alignRight}))
	return nil
}

func countRows(counts map[int]int) [][]string {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{strconv.Itoa(k), strconv.Itoa(counts[k])})
	}
	return rows
}
