// Package lockorder fixes a canonical total order for acquiring exclusive
// locks on multiple resources. Every code path that locks more than one
// account must acquire the locks in this order; otherwise two concurrent
// operations touching the same pair in opposite directions can deadlock.
package lockorder

// Canonical returns the two identifiers in their canonical lock order:
// lexicographic byte order, smaller first. It is a pure function, so any two
// callers given the same pair agree on the order regardless of argument
// direction.
func Canonical(a, b string) (first, second string) {
	if a <= b {
		return a, b
	}
	return b, a
}
