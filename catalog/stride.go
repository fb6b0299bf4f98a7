package catalog

// ContainsDuplicates reports whether an already sorted sequence contains two
// equal elements. Only adjacent pairs are compared, so the result is
// meaningless for unsorted input.
func ContainsDuplicates[E comparable](sorted []E) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return true
		}
	}
	return false
}

// MeasureStride returns the difference between successive elements if that
// difference is constant across the entire sequence. With fewer than two
// elements there is no pair to compare and ok is false.
func MeasureStride(seq []int64) (stride int64, ok bool) {
	if len(seq) < 2 {
		return 0, false
	}
	stride = seq[1] - seq[0]
	for i := 2; i < len(seq); i++ {
		if seq[i]-seq[i-1] != stride {
			return 0, false
		}
	}
	return stride, true
}

// MinMax returns the smallest and largest element of seq in a single pass.
// ok is false for an empty sequence, which has no meaningful bounds.
func MinMax(seq []int64) (min, max int64, ok bool) {
	if len(seq) == 0 {
		return 0, 0, false
	}
	min, max = seq[0], seq[0]
	for _, v := range seq[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}
