package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/lumitree/internal/logging"
)

func listPlaylists(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	specs, err := cfg.PlaylistSpecs()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(specs))
	for n := range specs {
		names = append(names, n)
	}
	sort.Strings(names)

	var rows [][]string
	for _, n := range names {
		pl := specs[n]
		for i, r := range pl.Routines {
			types := make([]string, len(r.Layers))
			for j, l := range r.Layers {
				types[j] = l.Type
			}
			shuffle := ""
			if i == 0 && pl.Shuffle {
				shuffle = "yes"
			}
			marker := n
			if n == cfg.Active {
				marker += " *"
			}
			rows = append(rows, []string{marker, strconv.Itoa(i), shuffle, strings.Join(types, " + ")})
		}
	}
	fmt.Println(renderTable([]string{"PLAYLIST", "#", "SHUFFLE", "LAYERS"}, rows, []columnAlignment{alignLeft, alignRight}))

	reg := newRegistry(cfg, logging.Discard())
	var types [][]string
	for _, t := range reg.Types() {
		doc, responsive, _ := reg.Describe(t)
		kind := ""
		if responsive {
			kind = "responsive"
		}
		types = append(types, []string{t, kind, doc})
	}
	fmt.Println(renderTable([]string{"LAYER TYPE", "KIND", "DESCRIPTION"}, types, nil))
	return nil
}
