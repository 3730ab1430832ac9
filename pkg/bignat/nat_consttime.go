package bignat

import "github.com/coinbase/cb-bignat-go/pkg/ct"

// Constant-time arithmetic. Every method here mirrors a variable-time one.
// Control flow and memory accesses depend only on sizes, never on values.
// Conditions are carried as byte masks (0xFF true, 0x00 false) and failures
// are returned as an error mask instead of a panic.

// digitAt returns the byte of d with weight 256^i, or zero past the top.
// Only the public length decides which branch runs.
func digitAt(d []byte, i int) byte {
	j := len(d) - 1 - i
	if j < 0 {
		return 0
	}
	return d[j]
}

// CTIsZero returns 0xFF if n is zero.
func (n *Nat) CTIsZero() byte {
	return ct.IsZeroBytes(n.digits())
}

// CTIsOne returns 0xFF if n is one.
func (n *Nat) CTIsOne() byte {
	d := n.digits()
	if len(d) == 0 {
		return 0
	}
	var acc byte
	for i := 0; i < len(d)-1; i++ {
		acc |= d[i]
	}
	return ct.IsZero(acc | (d[len(d)-1] ^ 1))
}

// CTEquals returns 0xFF if n and other hold the same value. Sizes may differ.
func (n *Nat) CTEquals(other *Nat) byte {
	a, b := n.digits(), other.digits()
	var acc byte
	for i := range max(len(a), len(b)) {
		acc |= digitAt(a, i) ^ digitAt(b, i)
	}
	return ct.IsZero(acc)
}

// CTIsLesser returns 0xFF if n < other. Sizes may differ.
func (n *Nat) CTIsLesser(other *Nat) byte {
	a, b := n.digits(), other.digits()
	borrow := 0
	for i := range max(len(a), len(b)) {
		diff := int(digitAt(a, i)) - int(digitAt(b, i)) - borrow
		borrow = (diff >> 8) & 1
	}
	return ct.FromBit(byte(borrow))
}

// CTBit returns bit i of n as 0 or 1. The index is public; every byte of n
// is read.
func (n *Nat) CTBit(i int) byte {
	if i >= 8*n.size {
		return 0
	}
	return ct.Bit(n.digits(), i)
}

// CTCopy is Copy with the failure reported as a mask: the low bytes of
// other that fit are always copied, and the result is 0xFF when a truncated
// leading byte of other was not zero.
func (n *Nat) CTCopy(other *Nat) byte {
	if n == other {
		return 0
	}
	d, o := n.digits(), other.digits()
	for i := range d {
		d[len(d)-1-i] = digitAt(o, i)
	}
	var lost byte
	for i := 0; i < len(o)-len(d); i++ {
		lost |= o[i]
	}
	return ^ct.IsZero(lost)
}

// CTAdd sets n = n + other unless blind is 0xFF, in which case n is left
// unchanged after doing the same work. It returns 0xFF when the sum does not
// fit the size of n.
func (n *Nat) CTAdd(other *Nat, blind byte) byte {
	d, o := n.digits(), other.digits()
	carry := 0
	for i := range d {
		j := len(d) - 1 - i
		acc := int(d[j]) + int(digitAt(o, i)) + carry
		d[j] = ct.Select(blind, d[j], byte(acc))
		carry = acc >> 8
	}
	var lost byte
	for i := 0; i < len(o)-len(d); i++ {
		lost |= o[i]
	}
	return ct.FromBit(byte(carry)) | ^ct.IsZero(lost)
}

// CTSubtract sets n = n - other unless blind is 0xFF. It returns 0xFF when
// other > n.
func (n *Nat) CTSubtract(other *Nat, blind byte) byte {
	d, o := n.digits(), other.digits()
	borrow := 0
	for i := range d {
		j := len(d) - 1 - i
		acc := int(d[j]) - int(digitAt(o, i)) - borrow
		d[j] = ct.Select(blind, d[j], byte(acc))
		borrow = (acc >> 8) & 1
	}
	var lost byte
	for i := 0; i < len(o)-len(d); i++ {
		lost |= o[i]
	}
	return ct.FromBit(byte(borrow)) | ^ct.IsZero(lost)
}

// CTMult sets n = x * y by schoolbook multiplication over every digit pair.
// It returns 0xFF when the product does not fit the size of n.
func (n *Nat) CTMult(x, y *Nat) byte {
	tmp := n.res.Acquire(SlotProduct)
	defer tmp.Release()

	tmp.SetSize(x.size + y.size)
	tmp.SetZero()
	t, xd, yd := tmp.digits(), x.digits(), y.digits()
	for j := range yd {
		yj := int(digitAt(yd, j))
		carry := 0
		for i := range xd {
			pos := len(t) - 1 - i - j
			acc := int(t[pos]) + int(digitAt(xd, i))*yj + carry
			t[pos] = byte(acc)
			carry = acc >> 8
		}
		t[len(t)-1-len(xd)-j] = byte(carry)
	}
	return n.CTCopy(tmp.Nat)
}

// CTMultSquares sets n = x * y through ab = ((a+b)^2 - (a-b)^2) / 4, so the
// product costs two squarings. square must set dst = src^2 for dst twice as
// long as src, and return an error mask.
func (n *Nat) CTMultSquares(x, y *Nat, square func(dst, src *Nat) byte) byte {
	sum := n.res.Acquire(SlotSquareSum)
	defer sum.Release()
	diff := n.res.Acquire(SlotSquareDiff)
	defer diff.Release()
	prod := n.res.Acquire(SlotSquareProd)
	defer prod.Release()

	l := max(x.size, y.size) + 1
	sum.SetSize(l)
	sum.CTCopy(x)
	sum.CTAdd(y, 0)
	diff.SetSize(l)
	diff.CTCopy(x)
	diff.ctNegate(diff.CTSubtract(y, 0))

	prod.SetSize(2 * l)
	errMask := square(prod.Nat, sum.Nat)
	sum.SetSize(2 * l)
	errMask |= square(sum.Nat, diff.Nat)
	errMask |= prod.CTSubtract(sum.Nat, 0)
	prod.CTShiftRight(2, 0)
	return errMask | n.CTCopy(prod.Nat)
}

// ctNegate replaces n by its two's complement within its size when mask is
// 0xFF.
func (n *Nat) ctNegate(mask byte) {
	d := n.digits()
	carry := 1
	for i := len(d) - 1; i >= 0; i-- {
		acc := int(^d[i]) + carry
		d[i] = ct.Select(mask, byte(acc), d[i])
		carry = acc >> 8
	}
}

// CTShiftLeft shifts n left by the public amount bits unless blind is 0xFF.
func (n *Nat) CTShiftLeft(bits int, blind byte) {
	d := n.digits()
	byteShift, bitShift := bits>>3, uint(bits&7)
	for i := range d {
		var hi, lo byte
		if k := i + byteShift; k < len(d) {
			hi = d[k]
		}
		if k := i + byteShift + 1; k < len(d) {
			lo = d[k]
		}
		d[i] = ct.Select(blind, d[i], hi<<bitShift|lo>>(8-bitShift))
	}
}

// CTShiftRight shifts n right by the public amount bits unless blind is 0xFF.
func (n *Nat) CTShiftRight(bits int, blind byte) {
	d := n.digits()
	byteShift, bitShift := bits>>3, uint(bits&7)
	for i := len(d) - 1; i >= 0; i-- {
		var hi, lo byte
		if k := i - byteShift - 1; k >= 0 {
			hi = d[k]
		}
		if k := i - byteShift; k >= 0 {
			lo = d[k]
		}
		d[i] = ct.Select(blind, d[i], lo>>bitShift|hi<<(8-bitShift))
	}
}

// CTRemainderDivide sets n = n mod divisor and, when quotient is not nil,
// quotient = n / divisor. It shifts the dividend in one bit at a time and
// performs a trial subtraction per bit, so the work depends only on sizes.
// The error mask is 0xFF for a zero divisor or a quotient that does not fit.
// quotient must not be n.
func (n *Nat) CTRemainderDivide(divisor, quotient *Nat) byte {
	rem := n.res.Acquire(SlotDivRem)
	defer rem.Release()
	trial := n.res.Acquire(SlotDivTrial)
	defer trial.Release()

	errMask := divisor.CTIsZero()
	rem.SetSize(divisor.size + 1)
	rem.SetZero()
	trial.SetSize(divisor.size + 1)
	if quotient != nil {
		quotient.SetZero()
	}

	d := n.digits()
	r := rem.digits()
	for i := 8*len(d) - 1; i >= 0; i-- {
		rem.CTShiftLeft(1, 0)
		r[len(r)-1] |= (d[len(d)-1-i>>3] >> uint(i&7)) & 1

		trial.CTCopy(rem.Nat)
		fits := ^trial.CTSubtract(divisor, 0)
		rem.CTSelect(fits, trial.Nat)

		if quotient == nil {
			continue
		}
		if i >= 8*quotient.size {
			errMask |= fits
			continue
		}
		q := quotient.digits()
		q[len(q)-1-i>>3] |= (fits & 1) << uint(i&7)
	}
	return errMask | n.CTCopy(rem.Nat)
}

// CTMod sets n = n mod m.
func (n *Nat) CTMod(m *Nat) byte {
	return n.CTRemainderDivide(m, nil)
}

// CTSelect sets n = other when mask is 0xFF and leaves n unchanged when it
// is 0x00. other is zero-extended or truncated to the size of n.
func (n *Nat) CTSelect(mask byte, other *Nat) {
	d, o := n.digits(), other.digits()
	for i := range d {
		j := len(d) - 1 - i
		d[j] = ct.Select(mask, digitAt(o, i), d[j])
	}
}

// CTSwap exchanges n and other when mask is 0xFF. Both must have the same
// size.
func (n *Nat) CTSwap(mask byte, other *Nat) {
	if n.size != other.size {
		fatalf("CTSwap", ErrSizing, "sizes %d and %d differ", n.size, other.size)
	}
	a, b := n.digits(), other.digits()
	for i := range a {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// CTGcd sets n = gcd(n, other) with binary GCD. Common factors of two are
// stripped over a fixed number of rounds, then each of 16*size rounds either
// halves an even value or replaces the larger odd value by half the
// difference. n grows to the size of other when it is shorter.
func (n *Nat) CTGcd(other *Nat) byte {
	a := n.res.Acquire(SlotGcdA)
	defer a.Release()
	b := n.res.Acquire(SlotGcdB)
	defer b.Release()
	t := n.res.Acquire(SlotGcdT)
	defer t.Release()

	size := max(n.size, other.size)
	if size == 0 {
		return 0
	}
	if n.size < size {
		n.Resize(size)
	}
	a.SetSize(size)
	a.CTCopy(n)
	b.SetSize(size)
	b.CTCopy(other)
	t.SetSize(size)

	ad, bd := a.digits(), b.digits()
	twos := 0
	for range 8 * size {
		even := ^ct.FromBit(ad[size-1] | bd[size-1])
		a.CTShiftRight(1, ^even)
		b.CTShiftRight(1, ^even)
		twos += int(even & 1)
	}

	for range 16 * size {
		aOdd := ct.FromBit(ad[size-1])
		bOdd := ct.FromBit(bd[size-1])
		bothOdd := aOdd & bOdd

		t.CTCopy(a.Nat)
		aLess := t.CTSubtract(b.Nat, 0)
		t.ctNegate(aLess)
		t.CTShiftRight(1, 0)
		a.CTSelect(bothOdd&^aLess, t.Nat)
		b.CTSelect(bothOdd&aLess, t.Nat)

		a.CTShiftRight(1, aOdd)
		b.CTShiftRight(1, ^aOdd|bOdd)
	}

	for i := range ad {
		ad[i] |= bd[i]
	}
	for i := range 8 * size {
		a.CTShiftLeft(1, ct.ByteMask(ct.GreaterOrEqualInt(i, twos)))
	}
	return n.CTCopy(a.Nat)
}

// CTShrink drops leading zero bytes, keeping at least one byte. The new size
// is derived without branching on the bytes; it is itself data dependent.
func (n *Nat) CTShrink() {
	if n.size == 0 {
		return
	}
	d := n.digits()
	leading := 0
	zero := -1
	for i := 0; i < len(d)-1; i++ {
		zero &= ct.IntMask(ct.IsZero(d[i]))
		leading += zero & 1
	}
	n.size -= leading
}
