package topology

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// RootHeight is the normalized height below which an edge center counts as a root.
const RootHeight = 0.1

// Vec3 is a point in sculpture space.
type Vec3 [3]float64

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Edge is a lit segment between two node ids.
type Edge [2]int

// Graph is the raw topology input. Keys are contiguous 0-based integer strings.
type Graph struct {
	Nodes map[string][3]float64 `json:"nodes"`
	Edges map[string][2]int     `json:"edges"`
}

// Addresses maps dotted hierarchical addresses (e.g. "2.1.3") to edge ids.
type Addresses map[string]int

// BaseCenter is the normalized reference point distances are measured from.
var BaseCenter = Vec3{0.5, 0.5, 0}

type Model struct {
	rawNodes  []Vec3
	nodes     []Vec3
	edges     []Edge
	centers   []Vec3
	distances []float64
	roots     []int
	nodeEdges [][]int
	adjacency [][]int
	outward   [][]int

	hasAddresses bool
	addresses    []string
	heights      []int
	trees        []int
	maxHeight    int
	numTrees     int
	edgeForAddr  map[string]int
}

// New builds a Model from a raw graph and an optional address mapping.
// It fails with a *StructureError when ids are not contiguous or an edge
// references a missing node.
func New(g Graph, addrs Addresses) (*Model, error) {
	rawNodes, err := contiguousNodes(g.Nodes)
	if err != nil {
		return nil, err
	}
	edges, err := contiguousEdges(g.Edges, len(rawNodes))
	if err != nil {
		return nil, err
	}

	m := &Model{
		rawNodes: rawNodes,
		edges:    edges,
	}
	m.nodes = normalize(rawNodes)
	m.computeCenters()
	m.computeRoots()
	m.computeAdjacency()

	if err := m.applyAddresses(addrs); err != nil {
		return nil, err
	}
	return m, nil
}

func contiguousNodes(raw map[string][3]float64) ([]Vec3, error) {
	if len(raw) == 0 {
		return nil, structureErr("nodes", "", "no nodes")
	}
	nodes := make([]Vec3, len(raw))
	for i := range nodes {
		key := strconv.Itoa(i)
		v, ok := raw[key]
		if !ok {
			return nil, structureErr("nodes", key, "missing key in sequential mapping")
		}
		nodes[i] = Vec3(v)
	}
	return nodes, nil
}

func contiguousEdges(raw map[string][2]int, numNodes int) ([]Edge, error) {
	if len(raw) == 0 {
		return nil, structureErr("edges", "", "no edges")
	}
	edges := make([]Edge, len(raw))
	for i := range edges {
		key := strconv.Itoa(i)
		e, ok := raw[key]
		if !ok {
			return nil, structureErr("edges", key, "missing key in sequential mapping")
		}
		for _, n := range e {
			if n < 0 || n >= numNodes {
				return nil, structureErr("edges", key, "references missing node %d", n)
			}
		}
		if e[0] == e[1] {
			return nil, structureErr("edges", key, "both endpoints are node %d", e[0])
		}
		edges[i] = Edge(e)
	}
	return edges, nil
}

// normalize rescales every axis into [0,1] using the bounding box. An axis
// with zero extent maps to 0.
func normalize(raw []Vec3) []Vec3 {
	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], v[i])
			hi[i] = math.Max(hi[i], v[i])
		}
	}
	out := make([]Vec3, len(raw))
	for n, v := range raw {
		for i := 0; i < 3; i++ {
			if extent := hi[i] - lo[i]; extent > 0 {
				out[n][i] = (v[i] - lo[i]) / extent
			}
		}
	}
	return out
}

func (m *Model) computeCenters() {
	m.centers = make([]Vec3, len(m.edges))
	m.distances = make([]float64, len(m.edges))
	for i, e := range m.edges {
		a, b := m.nodes[e[0]], m.nodes[e[1]]
		c := Vec3{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
		m.centers[i] = c
		m.distances[i] = c.Sub(BaseCenter).Norm()
	}
}

func (m *Model) computeRoots() {
	for i, c := range m.centers {
		if c[2] < RootHeight {
			m.roots = append(m.roots, i)
		}
	}
}

func (m *Model) computeAdjacency() {
	m.nodeEdges = make([][]int, len(m.nodes))
	for i, e := range m.edges {
		m.nodeEdges[e[0]] = append(m.nodeEdges[e[0]], i)
		m.nodeEdges[e[1]] = append(m.nodeEdges[e[1]], i)
	}

	m.adjacency = make([][]int, len(m.edges))
	m.outward = make([][]int, len(m.edges))
	for i, e := range m.edges {
		seen := make(map[int]struct{})
		for _, n := range e {
			for _, other := range m.nodeEdges[n] {
				if other != i {
					seen[other] = struct{}{}
				}
			}
		}
		adj := make([]int, 0, len(seen))
		for other := range seen {
			adj = append(adj, other)
		}
		sort.Ints(adj)
		m.adjacency[i] = adj

		for _, other := range adj {
			if m.distances[other] > m.distances[i] {
				m.outward[i] = append(m.outward[i], other)
			}
		}
	}
}

func (m *Model) applyAddresses(addrs Addresses) error {
	n := len(m.edges)
	m.heights = make([]int, n)
	m.trees = make([]int, n)
	m.addresses = make([]string, n)
	for i := range m.heights {
		m.heights[i] = -1
		m.trees[i] = -1
	}
	m.maxHeight = -1
	if len(addrs) == 0 {
		return nil
	}

	m.hasAddresses = true
	m.edgeForAddr = make(map[string]int, len(addrs))
	trees := make(map[int]struct{})
	for addr, edge := range addrs {
		if edge < 0 || edge >= n {
			return structureErr("addresses", addr, "references missing edge %d", edge)
		}
		parts := strings.Split(addr, ".")
		tree, err := strconv.Atoi(parts[0])
		if err != nil || tree < 1 {
			return structureErr("addresses", addr, "first segment must be a positive integer")
		}
		m.addresses[edge] = addr
		m.heights[edge] = len(parts) - 1
		m.trees[edge] = tree - 1
		m.edgeForAddr[addr] = edge
		trees[tree-1] = struct{}{}
		if m.heights[edge] > m.maxHeight {
			m.maxHeight = m.heights[edge]
		}
	}
	m.numTrees = len(trees)
	return nil
}

// NumLEDs returns the number of edges, which equals the LED count.
func (m *Model) NumLEDs() int { return len(m.edges) }

// NumNodes returns the number of structural nodes.
func (m *Model) NumNodes() int { return len(m.nodes) }

// Edge returns the node pair of edge i.
func (m *Model) Edge(i int) Edge { return m.edges[i] }

// Node returns the normalized position of node n.
func (m *Model) Node(n int) Vec3 { return m.nodes[n] }

// RawNode returns the input position of node n.
func (m *Model) RawNode(n int) Vec3 { return m.rawNodes[n] }

// Center returns the normalized midpoint of edge i.
func (m *Model) Center(i int) Vec3 { return m.centers[i] }

// Distance returns the distance of edge i's center from [BaseCenter].
func (m *Model) Distance(i int) float64 { return m.distances[i] }

func (m *Model) Distances() []float64 { return m.distances }

func (m *Model) Roots() []int { return m.roots }

// IsRoot reports whether edge i is a root edge.
func (m *Model) IsRoot(i int) bool {
	idx := sort.SearchInts(m.roots, i)
	return idx < len(m.roots) && m.roots[idx] == i
}

// EdgesAtNode returns the edges incident to node n.
func (m *Model) EdgesAtNode(n int) []int { return m.nodeEdges[n] }

// Adjacent returns the edges sharing a node with edge i, ascending.
func (m *Model) Adjacent(i int) []int { return m.adjacency[i] }

// Outward returns the adjacent edges of i with strictly greater distance.
func (m *Model) Outward(i int) []int { return m.outward[i] }

// HasAddresses reports whether an address mapping was supplied.
func (m *Model) HasAddresses() bool { return m.hasAddresses }

// Height returns the hierarchy depth of edge i, or -1 when unknown.
func (m *Model) Height(i int) int { return m.heights[i] }

// Tree returns the 0-based top-level branch of edge i, or -1 when unknown.
func (m *Model) Tree(i int) int { return m.trees[i] }

// MaxHeight returns the greatest known height, or -1 without addresses.
func (m *Model) MaxHeight() int { return m.maxHeight }

// NumTrees returns the number of distinct top-level branches.
func (m *Model) NumTrees() int { return m.numTrees }

// Address returns the address of edge i, or "" when unknown.
func (m *Model) Address(i int) string { return m.addresses[i] }

// EdgeForAddress looks up the edge carrying addr.
func (m *Model) EdgeForAddress(addr string) (int, bool) {
	e, ok := m.edgeForAddr[addr]
	return e, ok
}
