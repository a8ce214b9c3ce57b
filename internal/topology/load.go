package topology

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Load reads a graph JSON file and an optional address mapping JSON file
// (pass "" to skip) and builds a Model.
func Load(graphPath, addressPath string) (*Model, error) {
	var g Graph
	if err := readJSON(graphPath, &g); err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	var addrs Addresses
	if addressPath != "" {
		if err := readJSON(addressPath, &addrs); err != nil {
			return nil, fmt.Errorf("load addresses: %w", err)
		}
	}
	return New(g, addrs)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

const (
	trunkLength = 0.2
	levelHeight = 1.0
	baseRadius  = 1.0
	branchReach = 0.6
)

// Synthesize generates a forest of trees rising from a ring at the base.
// Each tree has a short trunk followed by depth levels of branching, with
// addresses "t", "t.k", "t.k.j", ... so the result carries height and tree
// data. depth must be at least 1 for the trunks to classify as roots.
func Synthesize(trees, depth, branching int) (Graph, Addresses) {
	g := Graph{
		Nodes: make(map[string][3]float64),
		Edges: make(map[string][2]int),
	}
	addrs := make(Addresses)
	if trees < 1 || depth < 1 || branching < 1 {
		return g, addrs
	}

	addNode := func(p [3]float64) int {
		id := len(g.Nodes)
		g.Nodes[strconv.Itoa(id)] = p
		return id
	}
	addEdge := func(a, b int, addr string) {
		id := len(g.Edges)
		g.Edges[strconv.Itoa(id)] = [2]int{a, b}
		addrs[addr] = id
	}

	type tip struct {
		node  int
		pos   [3]float64
		angle float64
		addr  string
	}

	for t := 1; t <= trees; t++ {
		angle := 2 * math.Pi * float64(t-1) / float64(trees)
		var bx, by float64
		if trees > 1 {
			bx, by = baseRadius*math.Cos(angle), baseRadius*math.Sin(angle)
		}
		base := addNode([3]float64{bx, by, 0})
		top := [3]float64{bx, by, trunkLength}
		trunk := addNode(top)
		addr := strconv.Itoa(t)
		addEdge(base, trunk, addr)

		frontier := []tip{{node: trunk, pos: top, angle: angle, addr: addr}}
		for level := 1; level <= depth; level++ {
			spread := math.Pi / 2 / float64(level)
			reach := branchReach / float64(level)
			next := make([]tip, 0, len(frontier)*branching)
			for _, parent := range frontier {
				for k := 1; k <= branching; k++ {
					a := parent.angle
					if branching > 1 {
						a += (float64(k-1)/float64(branching-1) - 0.5) * spread
					}
					p := [3]float64{
						parent.pos[0] + reach*math.Cos(a),
						parent.pos[1] + reach*math.Sin(a),
						parent.pos[2] + levelHeight,
					}
					child := addNode(p)
					childAddr := parent.addr + "." + strconv.Itoa(k)
					addEdge(parent.node, child, childAddr)
					next = append(next, tip{node: child, pos: p, angle: a, addr: childAddr})
				}
			}
			frontier = next
		}
	}
	return g, addrs
}
