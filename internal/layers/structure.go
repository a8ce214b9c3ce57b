package layers

import (
	"math"

	"github.com/san-kum/lumitree/internal/topology"
)

// fallbackSectors is the number of angular sectors used as stand-in trees
// when the model has no address mapping.
const fallbackSectors = 6

// treeOf returns the top-level branch index for edge i. Models without
// addresses are split into angular sectors around the base center.
func treeOf(m *topology.Model, i int) int {
	if m.HasAddresses() {
		if t := m.Tree(i); t >= 0 {
			return t
		}
		return 0
	}
	c := m.Center(i)
	a := math.Atan2(c[1]-topology.BaseCenter[1], c[0]-topology.BaseCenter[0]) + math.Pi
	s := int(a / (2 * math.Pi) * fallbackSectors)
	if s >= fallbackSectors {
		s = fallbackSectors - 1
	}
	return s
}

func numTrees(m *topology.Model) int {
	if m.HasAddresses() && m.NumTrees() > 0 {
		return m.NumTrees()
	}
	return fallbackSectors
}

// rankOf orders edges from root to tip: hierarchy depth when addresses are
// known, distance from the base otherwise.
func rankOf(m *topology.Model, i int) float64 {
	if m.HasAddresses() {
		return float64(m.Height(i))
	}
	return m.Distance(i)
}

// levelOf buckets edge i into one of n height levels.
func levelOf(m *topology.Model, i, n int, maxDist float64) int {
	if m.HasAddresses() {
		if h := m.Height(i); h >= 0 {
			return h
		}
		return 0
	}
	if maxDist <= 0 {
		return 0
	}
	l := int(m.Distance(i) / maxDist * float64(n))
	if l >= n {
		l = n - 1
	}
	return l
}

func numLevels(m *topology.Model) int {
	if m.HasAddresses() {
		return m.MaxHeight() + 1
	}
	return 8
}

func maxDistance(m *topology.Model) float64 {
	d := 0.0
	for _, v := range m.Distances() {
		d = math.Max(d, v)
	}
	return d
}
