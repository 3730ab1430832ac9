package ct

// Copy copies n bytes from src[srcOff:] into dst[dstOff:]. Every byte of dst
// is visited; positions outside [dstOff, dstOff+n), or whose source index
// falls outside src, keep their value. Nothing is written when blind is 0xFF.
//
// src must not be empty and must not overlap dst.
func Copy(src []byte, srcOff int, dst []byte, dstOff int, n int, blind byte) {
	enabled := IntMask(^blind)
	end := dstOff + n
	for i := range dst {
		j := i - dstOff + srcOff
		in := GreaterOrEqualInt(i, dstOff) & LessThanInt(i, end) &
			GreaterOrEqualInt(j, 0) & LessThanInt(j, len(src)) & enabled
		j = SelectInt(in, j, 0)
		dst[i] = Select(ByteMask(in), src[j], dst[i])
	}
}

// Fill sets dst[off:off+n] to v. Every byte of dst is visited. Nothing is
// written when blind is 0xFF.
func Fill(dst []byte, off int, n int, v byte, blind byte) {
	enabled := IntMask(^blind)
	end := off + n
	for i := range dst {
		in := GreaterOrEqualInt(i, off) & LessThanInt(i, end) & enabled
		dst[i] = Select(ByteMask(in), v, dst[i])
	}
}

// Bit returns bit i (0 is the least significant bit of the last byte) of the
// big-endian array arr as 0 or 1. Every byte of arr is read.
func Bit(arr []byte, i int) byte {
	idx := len(arr) - 1 - i>>3
	var acc byte
	for k := range arr {
		acc |= arr[k] & ByteMask(EqualInt(k, idx))
	}
	return (acc >> uint(i&7)) & 1
}

// SetBit sets bit i of the big-endian array arr to the low bit of v. Every
// byte of arr is rewritten. Nothing changes when blind is 0xFF.
func SetBit(arr []byte, i int, v byte, blind byte) {
	idx := len(arr) - 1 - i>>3
	shift := uint(i & 7)
	clearMask := ^(byte(1) << shift)
	bit := (v & 1) << shift
	for k := range arr {
		hit := ByteMask(EqualInt(k, idx)) & ^blind
		arr[k] = Select(hit, (arr[k]&clearMask)|bit, arr[k])
	}
}
