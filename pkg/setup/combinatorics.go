package setup

// Subsets returns every subset of values, including the empty one, in
// bitmask counting order: subset i holds values[j] for every set bit j.
func Subsets[T any](values []T) [][]T {
	n := len(values)
	out := make([][]T, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		var ss []T
		for j := 0; j < n; j++ {
			if mask&(1<<j) != 0 {
				ss = append(ss, values[j])
			}
		}
		out = append(out, ss)
	}
	return out
}

// Permutations returns every ordering of values. The first element is
// inserted at each position of every permutation of the rest.
func Permutations[T any](values []T) [][]T {
	if len(values) == 0 {
		return [][]T{{}}
	}
	first := values[0]
	var out [][]T
	for _, smaller := range Permutations(values[1:]) {
		for i := 0; i <= len(smaller); i++ {
			p := make([]T, 0, len(smaller)+1)
			p = append(p, smaller[:i]...)
			p = append(p, first)
			p = append(p, smaller[i:]...)
			out = append(out, p)
		}
	}
	return out
}
