package ct

import "crypto/subtle"

// IsZero returns 0xFF if x is zero and 0x00 otherwise.
func IsZero(x byte) byte {
	return byte((uint32(x) - 1) >> 8)
}

// Equal returns 0xFF if a == b and 0x00 otherwise.
func Equal(a, b byte) byte {
	return IsZero(a ^ b)
}

// LessThan returns 0xFF if a < b and 0x00 otherwise.
func LessThan(a, b byte) byte {
	return byte((uint32(a) - uint32(b)) >> 8)
}

// Select returns a if mask is 0xFF and b if mask is 0x00.
func Select(mask, a, b byte) byte {
	return (mask & a) | (^mask & b)
}

// FromBit turns the low bit of b into a byte mask.
func FromBit(b byte) byte {
	return -(b & 1)
}

// IsZeroInt returns -1 if x is zero and 0 otherwise.
func IsZeroInt(x int) int {
	v := int64(x)
	return int(^((v | -v) >> 63))
}

// EqualInt returns -1 if a == b and 0 otherwise.
func EqualInt(a, b int) int {
	return IsZeroInt(a ^ b)
}

// LessThanInt returns -1 if a < b and 0 otherwise. Both operands must fit in
// 32 bits, which every size and index in this module does.
func LessThanInt(a, b int) int {
	return int((int64(a) - int64(b)) >> 63)
}

// GreaterOrEqualInt returns -1 if a >= b and 0 otherwise.
func GreaterOrEqualInt(a, b int) int {
	return ^LessThanInt(a, b)
}

// SelectInt returns a if mask is -1 and b if mask is 0.
func SelectInt(mask, a, b int) int {
	return (mask & a) | (^mask & b)
}

// ByteMask narrows an int mask to a byte mask.
func ByteMask(mask int) byte {
	return byte(mask)
}

// IntMask widens a byte mask to an int mask.
func IntMask(mask byte) int {
	return int(int8(mask))
}

// IsZeroBytes returns 0xFF if every byte of b is zero.
func IsZeroBytes(b []byte) byte {
	var acc byte
	for i := range b {
		acc |= b[i]
	}
	return IsZero(acc)
}

// EqualBytes returns 0xFF if a and b hold the same bytes. The lengths are
// public; slices of different length compare unequal.
func EqualBytes(a, b []byte) byte {
	return FromBit(byte(subtle.ConstantTimeCompare(a, b)))
}
