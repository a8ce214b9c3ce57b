package topology

import "strings"

// Wildcard matches any single address segment.
const Wildcard = "*"

// MatchAddress reports whether address matches pattern segment-wise. Each
// pattern segment must equal the address segment or be [Wildcard], and both
// must have the same number of segments.
func MatchAddress(address, pattern string) bool {
	if address == "" {
		return false
	}
	as := strings.Split(address, ".")
	ps := strings.Split(pattern, ".")
	if len(as) != len(ps) {
		return false
	}
	for i, p := range ps {
		if p != Wildcard && p != as[i] {
			return false
		}
	}
	return true
}

// MatchAny returns the first pattern that address matches.
func MatchAny(address string, patterns ...string) (string, bool) {
	for _, p := range patterns {
		if MatchAddress(address, p) {
			return p, true
		}
	}
	return "", false
}

// EdgesMatching returns, ascending, every edge whose address matches any pattern.
func (m *Model) EdgesMatching(patterns ...string) []int {
	var out []int
	for i, addr := range m.addresses {
		if _, ok := MatchAny(addr, patterns...); ok {
			out = append(out, i)
		}
	}
	return out
}
