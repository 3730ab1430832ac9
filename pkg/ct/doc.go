// Package ct provides the branchless primitives every constant-time routine in
// cb-bignat-go is built from.
//
// # Masks
//
// Predicates return a mask rather than a bool: all ones (0xFF for bytes, -1
// for ints) when the predicate holds and zero otherwise. Masks compose with
// &, | and ^ and are consumed by Select, so a decision never turns into a
// branch.
//
//	m := ct.LessThan(a, b)
//	x := ct.Select(m, a, b) // min(a, b)
//
// # Arrays
//
// Copy, Fill, Bit and SetBit visit every byte of the array they write or
// read on every call. The logical range only decides, byte by byte and
// through Select, whether a position is affected. The cost is linear in the
// array length regardless of the requested range, which keeps the memory
// access pattern independent of offsets derived from secret data.
//
// # Policy
//
// Nothing in this package branches on, or indexes memory with, a value that
// was not first funneled through a mask. Loop bounds depend only on array
// lengths, which are public. The policy is checked statically by
// pkg/internalcheck.
package ct
