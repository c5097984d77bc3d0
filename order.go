package marionette

import "math"

// totalKey maps f to an int32 whose natural ordering is the IEEE 754
// totalOrder of f: -NaN < -Inf < ... < -0 < +0 < ... < +Inf < +NaN.
// NaN payloads are ordered by their bits.
func totalKey(f float32) int32 {
	k := int32(math.Float32bits(f))
	// Negative values have their magnitude bits flipped so that larger
	// magnitudes sort lower.
	k ^= int32(uint32(k>>31) >> 1)
	return k
}

// compareTotal compares a and b under totalOrder, returning -1, 0 or +1.
func compareTotal(a, b float32) int {
	ka, kb := totalKey(a), totalKey(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}

// isSortedTotal reports whether s is in non-decreasing totalOrder.
func isSortedTotal(s []float32) bool {
	for i := 1; i < len(s); i++ {
		if compareTotal(s[i-1], s[i]) > 0 {
			return false
		}
	}
	return true
}
