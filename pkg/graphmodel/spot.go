package graphmodel

// permutations3 lists the 6 permutations of {0,1,2}.
var permutations3 = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// Spot is a triad: an unordered 3-subset of vertices plus the 9 colors on
// the ordered pairs (u,v) with u,v drawn from the triad, serialized
// row-major over Nodes (including self-loops).
type Spot struct {
	Nodes  [3]int
	Colors [9]Color
}

// IsValid reports whether the three nodes are pairwise distinct.
func (s Spot) IsValid() bool {
	return s.Nodes[0] != s.Nodes[1] && s.Nodes[1] != s.Nodes[2] && s.Nodes[0] != s.Nodes[2]
}

// CanonicalKey returns the lexicographically smallest of the 6 row/column
// relabelings of the triad's 9-byte color tuple, defining triad equality
// under vertex relabeling.
func (s Spot) CanonicalKey() [9]byte {
	var best [9]byte
	first := true
	for _, perm := range permutations3 {
		var key [9]byte
		k := 0
		for _, pi := range perm {
			for _, pj := range perm {
				key[k] = byte(s.Colors[pi*3+pj])
				k++
			}
		}
		if first || lessKey(key, best) {
			best = key
			first = false
		}
	}
	return best
}

func lessKey(a, b [9]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
