package topology

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func cubeGraph() Graph {
	return Graph{
		Nodes: map[string][3]float64{
			"0": {0, 0, 0},
			"1": {10, 10, 10},
			"2": {5, 5, 0},
			"3": {5, 5, 1},
			"4": {5, 5, 4},
			"5": {5, 5, 6},
		},
		Edges: map[string][2]int{
			"0": {2, 3},
			"1": {4, 5},
			"2": {0, 1},
			"3": {3, 4},
		},
	}
}

func TestNewNormalizesAndClassifiesRoots(t *testing.T) {
	m, err := New(cubeGraph(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if m.NumLEDs() != 4 {
		t.Fatalf("expected 4 LEDs, got %d", m.NumLEDs())
	}

	c := m.Center(0)
	if math.Abs(c[2]-0.05) > 1e-12 {
		t.Errorf("expected center z 0.05, got %f", c[2])
	}
	if !m.IsRoot(0) {
		t.Error("edge with center z=0.05 should be a root")
	}

	if z := m.Center(1)[2]; math.Abs(z-0.5) > 1e-12 {
		t.Errorf("expected center z 0.5, got %f", z)
	}
	if m.IsRoot(1) {
		t.Error("edge with center z=0.5 should not be a root")
	}

	for n := 0; n < m.NumNodes(); n++ {
		for axis, v := range m.Node(n) {
			if v < 0 || v > 1 {
				t.Errorf("node %d axis %d not normalized: %f", n, axis, v)
			}
		}
	}

	if d := m.Distance(0); math.Abs(d-0.05) > 1e-12 {
		t.Errorf("expected distance 0.05 for centered root, got %f", d)
	}
}

func TestAdjacencySymmetric(t *testing.T) {
	g, addrs := Synthesize(3, 4, 2)
	m, err := New(g, addrs)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for a := 0; a < m.NumLEDs(); a++ {
		for _, b := range m.Adjacent(a) {
			if b == a {
				t.Fatalf("edge %d adjacent to itself", a)
			}
			if !contains(m.Adjacent(b), a) {
				t.Errorf("asymmetric adjacency: %d -> %d", a, b)
			}
		}
	}
}

func TestOutwardIncreasesDistance(t *testing.T) {
	g, addrs := Synthesize(4, 3, 3)
	m, err := New(g, addrs)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for a := 0; a < m.NumLEDs(); a++ {
		for _, b := range m.Outward(a) {
			if m.Distance(b) <= m.Distance(a) {
				t.Errorf("outward edge %d (%f) not farther than %d (%f)", b, m.Distance(b), a, m.Distance(a))
			}
			if !contains(m.Adjacent(a), b) {
				t.Errorf("outward edge %d is not adjacent to %d", b, a)
			}
		}
	}
}

func TestAddressDerivedFields(t *testing.T) {
	m, err := New(cubeGraph(), Addresses{"1": 0, "1.2": 3, "2": 1, "2.1.1": 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		edge   int
		height int
		tree   int
	}{
		{0, 0, 0},
		{3, 1, 0},
		{1, 0, 1},
		{2, 2, 1},
	}
	for _, tt := range tests {
		if got := m.Height(tt.edge); got != tt.height {
			t.Errorf("edge %d: height = %d, want %d", tt.edge, got, tt.height)
		}
		if got := m.Tree(tt.edge); got != tt.tree {
			t.Errorf("edge %d: tree = %d, want %d", tt.edge, got, tt.tree)
		}
	}
	if m.MaxHeight() != 2 {
		t.Errorf("expected max height 2, got %d", m.MaxHeight())
	}
	if m.NumTrees() != 2 {
		t.Errorf("expected 2 trees, got %d", m.NumTrees())
	}
}

func TestWithoutAddresses(t *testing.T) {
	m, err := New(cubeGraph(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.HasAddresses() {
		t.Error("expected no addresses")
	}
	for i := 0; i < m.NumLEDs(); i++ {
		if m.Height(i) != -1 || m.Tree(i) != -1 {
			t.Errorf("edge %d should have unknown height and tree", i)
		}
	}
}

func TestNewRejectsBadStructure(t *testing.T) {
	tests := []struct {
		name  string
		graph Graph
		addrs Addresses
	}{
		{"gap in node keys", Graph{
			Nodes: map[string][3]float64{"0": {0, 0, 0}, "2": {1, 1, 1}},
			Edges: map[string][2]int{"0": {0, 1}},
		}, nil},
		{"gap in edge keys", Graph{
			Nodes: map[string][3]float64{"0": {0, 0, 0}, "1": {1, 1, 1}},
			Edges: map[string][2]int{"1": {0, 1}},
		}, nil},
		{"missing node", Graph{
			Nodes: map[string][3]float64{"0": {0, 0, 0}, "1": {1, 1, 1}},
			Edges: map[string][2]int{"0": {0, 7}},
		}, nil},
		{"self loop", Graph{
			Nodes: map[string][3]float64{"0": {0, 0, 0}, "1": {1, 1, 1}},
			Edges: map[string][2]int{"0": {1, 1}},
		}, nil},
		{"address to missing edge", cubeGraph(), Addresses{"1": 99}},
		{"non-numeric tree", cubeGraph(), Addresses{"x.1": 0}},
		{"empty", Graph{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.graph, tt.addrs)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrStructure) {
				t.Errorf("expected ErrStructure, got %v", err)
			}
			var se *StructureError
			if !errors.As(err, &se) {
				t.Errorf("expected *StructureError, got %T", err)
			}
		})
	}
}

func TestMatchAddress(t *testing.T) {
	tests := []struct {
		address string
		pattern string
		want    bool
	}{
		{"2.1.3", "2.1.3", true},
		{"2.1.3", "2.*.3", true},
		{"2.1.3", "*.*.*", true},
		{"2.1.3", "2.*", false},
		{"2.1.3", "3.*.*", false},
		{"", "*", false},
	}
	for _, tt := range tests {
		if got := MatchAddress(tt.address, tt.pattern); got != tt.want {
			t.Errorf("MatchAddress(%q, %q) = %v, want %v", tt.address, tt.pattern, got, tt.want)
		}
	}

	p, ok := MatchAny("1.2.1", "*.*", "*.2.*", "1.2.1")
	if !ok || p != "*.2.*" {
		t.Errorf("MatchAny returned %q, %v", p, ok)
	}
}

func TestEdgesMatching(t *testing.T) {
	g, addrs := Synthesize(2, 2, 2)
	m, err := New(g, addrs)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	under := m.EdgesMatching("2.*")
	if len(under) != 2 {
		t.Fatalf("expected 2 first-level edges in tree 2, got %d", len(under))
	}
	for _, e := range under {
		if m.Tree(e) != 1 {
			t.Errorf("edge %d belongs to tree %d", e, m.Tree(e))
		}
	}
}

func TestSynthesize(t *testing.T) {
	g, addrs := Synthesize(6, 3, 2)
	m, err := New(g, addrs)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// per tree: trunk + 2 + 4 + 8
	if want := 6 * 15; m.NumLEDs() != want {
		t.Errorf("expected %d LEDs, got %d", want, m.NumLEDs())
	}
	if len(m.Roots()) != 6 {
		t.Errorf("expected one root per tree, got %d", len(m.Roots()))
	}
	for _, r := range m.Roots() {
		if m.Height(r) != 0 {
			t.Errorf("root %d has height %d", r, m.Height(r))
		}
	}
	if m.MaxHeight() != 3 {
		t.Errorf("expected max height 3, got %d", m.MaxHeight())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "graph.json")
	addrPath := filepath.Join(dir, "addresses.json")

	graph := `{"nodes": {"0": [0, 0, 0], "1": [0, 0, 1], "2": [1, 1, 2]},
	           "edges": {"0": [0, 1], "1": [1, 2]}}`
	if err := os.WriteFile(graphPath, []byte(graph), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(addrPath, []byte(`{"1": 0, "1.1": 1}`), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(graphPath, addrPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.NumLEDs() != 2 {
		t.Errorf("expected 2 LEDs, got %d", m.NumLEDs())
	}
	if e, ok := m.EdgeForAddress("1.1"); !ok || e != 1 {
		t.Errorf("EdgeForAddress(1.1) = %d, %v", e, ok)
	}
	if got := m.Adjacent(0); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected edge 0 adjacent to [1], got %v", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
