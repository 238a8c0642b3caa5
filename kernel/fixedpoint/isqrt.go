package fixedpoint

// Isqrt returns floor(sqrt(n)) using the Babylonian method. It is a
// supplemental arithmetic primitive for emission.Policy implementations
// that need a square root (ZeroEmission does not call it); it operates
// on a plain uint64 rather than a Fixed value, since emission formulas
// that need it apply it to un-scaled population/weight counts.
func Isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := x/2 + x%2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
