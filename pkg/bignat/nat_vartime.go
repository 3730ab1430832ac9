package bignat

// Variable-time arithmetic. These methods branch on operand values and exit
// early; use them only when the values are public. Sizes are always public.

// IsZero reports whether n is zero.
func (n *Nat) IsZero() bool {
	for _, b := range n.digits() {
		if b != 0 {
			return false
		}
	}
	return true
}

// IsOne reports whether n is one.
func (n *Nat) IsOne() bool {
	d := n.digits()
	if len(d) == 0 || d[len(d)-1] != 1 {
		return false
	}
	for _, b := range d[:len(d)-1] {
		if b != 0 {
			return false
		}
	}
	return true
}

// IsOdd reports whether the lowest bit of n is set.
func (n *Nat) IsOdd() bool {
	return n.size > 0 && n.value[len(n.value)-1]&1 == 1
}

// Equals reports whether n and other have the same value. Sizes may differ.
func (n *Nat) Equals(other *Nat) bool {
	return compareShifted(n.digits(), other.digits(), 0) == 0
}

// IsLesser reports whether n < other. Sizes may differ.
func (n *Nat) IsLesser(other *Nat) bool {
	return compareShifted(n.digits(), other.digits(), 0) < 0
}

// Add sets n = n + other and returns the carry out of the top byte.
func (n *Nat) Add(other *Nat) byte {
	return addDigits(n.digits(), other.digits(), 0, 1, "Add")
}

// Subtract sets n = n - other and returns the borrow out of the top byte.
func (n *Nat) Subtract(other *Nat) byte {
	return subDigits(n.digits(), other.digits(), 0, 1, "Subtract")
}

// Increment adds one to n and returns the carry.
func (n *Nat) Increment() byte {
	return addDigits(n.digits(), one, 0, 1, "Increment")
}

// Decrement subtracts one from n and returns the borrow.
func (n *Nat) Decrement() byte {
	return subDigits(n.digits(), one, 0, 1, "Decrement")
}

var one = []byte{1}

// Mult sets n = x * y. The product must fit the size of n.
func (n *Nat) Mult(x, y *Nat) {
	tmp := n.res.Acquire(SlotProduct)
	defer tmp.Release()

	tmp.SetSize(x.size + y.size)
	tmp.SetZero()
	t, yd := tmp.digits(), y.digits()
	for i := len(yd) - 1; i >= 0; i-- {
		if yd[i] == 0 {
			continue
		}
		addDigits(t, x.digits(), len(yd)-1-i, int(yd[i]), "Mult")
	}
	n.Copy(tmp.Nat)
}

// ShiftLeft shifts n left by bits within its size; bits shifted out of the
// top byte are lost.
func (n *Nat) ShiftLeft(bits int) {
	d := n.digits()
	byteShift, bitShift := bits>>3, uint(bits&7)
	if byteShift >= len(d) {
		clear(d)
		return
	}
	if byteShift > 0 {
		copy(d, d[byteShift:])
		clear(d[len(d)-byteShift:])
	}
	if bitShift == 0 {
		return
	}
	for i := 0; i < len(d)-1; i++ {
		d[i] = d[i]<<bitShift | d[i+1]>>(8-bitShift)
	}
	d[len(d)-1] <<= bitShift
}

// ShiftRight shifts n right by bits.
func (n *Nat) ShiftRight(bits int) {
	d := n.digits()
	byteShift, bitShift := bits>>3, uint(bits&7)
	if byteShift >= len(d) {
		clear(d)
		return
	}
	if byteShift > 0 {
		copy(d[byteShift:], d[:len(d)-byteShift])
		clear(d[:byteShift])
	}
	if bitShift == 0 {
		return
	}
	for i := len(d) - 1; i > 0; i-- {
		d[i] = d[i]>>bitShift | d[i-1]<<(8-bitShift)
	}
	d[0] >>= bitShift
}

// RemainderDivide sets n = n mod divisor and, when quotient is not nil,
// quotient = n / divisor. The quotient must fit the size of quotient and must
// not be n. A zero divisor is fatal.
//
// Each quotient digit is estimated from the top three remainder digits and
// the top two divisor digits. The estimate never exceeds the true digit, so
// the inner loop only ever subtracts and terminates after a few rounds.
func (n *Nat) RemainderDivide(divisor, quotient *Nat) {
	if quotient != nil {
		quotient.SetZero()
	}
	dv := trimDigits(divisor.digits())
	if len(dv) == 0 {
		fatal("RemainderDivide", ErrDivisionByZero)
	}
	a := n.digits()
	top := int(dv[0]) << 8
	if len(dv) > 1 {
		top |= int(dv[1])
	}

	for shift := len(a) - len(dv); shift >= 0; shift-- {
		pos := len(a) - len(dv) - shift
		for compareShifted(a, dv, shift) >= 0 {
			window := int(a[pos]) << 8
			if pos > 0 {
				window |= int(a[pos-1]) << 16
			}
			if pos+1 < len(a) {
				window |= int(a[pos+1])
			}
			digit := min(max(window/(top+1), 1), 0xFF)
			subDigits(a, dv, shift, digit, "RemainderDivide")
			if quotient != nil && addDigits(quotient.digits(), []byte{byte(digit)}, shift, 1, "RemainderDivide") != 0 {
				fatalf("RemainderDivide", ErrSizing, "quotient does not fit %d bytes", quotient.size)
			}
		}
	}
}

// Mod sets n = n mod m.
func (n *Nat) Mod(m *Nat) {
	n.RemainderDivide(m, nil)
}

// Gcd sets n = gcd(n, other) by Euclid's algorithm. n grows to the size of
// other when it is shorter.
func (n *Nat) Gcd(other *Nat) {
	a := n.res.Acquire(SlotGcdA)
	defer a.Release()
	b := n.res.Acquire(SlotGcdB)
	defer b.Release()

	if n.size < other.size {
		n.Resize(other.size)
	}
	euclid(a.Nat, b.Nat, n, other)
	n.Copy(a.Nat)
}

// IsCoprime reports whether gcd(n, other) == 1.
func (n *Nat) IsCoprime(other *Nat) bool {
	a := n.res.Acquire(SlotGcdA)
	defer a.Release()
	b := n.res.Acquire(SlotGcdB)
	defer b.Release()

	euclid(a.Nat, b.Nat, n, other)
	return a.IsOne()
}

// euclid leaves gcd(x, y) in a, using a and b as working registers.
func euclid(a, b, x, y *Nat) {
	size := max(x.size, y.size)
	a.SetSize(size)
	a.Copy(x)
	b.SetSize(size)
	b.Copy(y)
	for !b.IsZero() {
		a.RemainderDivide(b, nil)
		swapDigits(a, b)
	}
}

func swapDigits(a, b *Nat) {
	ad, bd := a.digits(), b.digits()
	for i := range ad {
		ad[i], bd[i] = bd[i], ad[i]
	}
}

// trimDigits drops leading zero bytes.
func trimDigits(d []byte) []byte {
	for len(d) > 0 && d[0] == 0 {
		d = d[1:]
	}
	return d
}

// compareShifted compares a with b * 256^shift and returns -1, 0 or 1.
func compareShifted(a, b []byte, shift int) int {
	lb := len(b) + shift
	for len(a) > lb {
		if a[0] != 0 {
			return 1
		}
		a = a[1:]
	}
	skip := lb - len(a)
	for i := 0; i < skip && i < len(b); i++ {
		if b[i] != 0 {
			return -1
		}
	}
	for k := range a {
		var bv byte
		if j := skip + k; j < len(b) {
			bv = b[j]
		}
		if a[k] != bv {
			if a[k] < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// fitDigits returns b without the leading zeros that do not fit into width
// bytes once shifted; it is fatal when a non-zero byte would not fit.
func fitDigits(b []byte, width, shift int, op string) []byte {
	excess := len(b) + shift - width
	if excess <= 0 {
		return b
	}
	if excess > len(b) {
		excess = len(b)
	}
	for _, v := range b[:excess] {
		if v != 0 {
			fatalf(op, ErrSizing, "operand does not fit %d bytes", width)
		}
	}
	return b[excess:]
}

// addDigits sets a = a + b * mult * 256^shift and returns the carry out of
// the top byte of a.
func addDigits(a, b []byte, shift, mult int, op string) byte {
	b = fitDigits(b, len(a), shift, op)
	carry := 0
	i := len(a) - 1 - shift
	for j := len(b) - 1; j >= 0; j-- {
		acc := int(a[i]) + int(b[j])*mult + carry
		a[i] = byte(acc)
		carry = acc >> 8
		i--
	}
	for ; i >= 0 && carry != 0; i-- {
		acc := int(a[i]) + carry
		a[i] = byte(acc)
		carry = acc >> 8
	}
	return byte(carry)
}

// subDigits sets a = a - b * mult * 256^shift and returns the borrow out of
// the top byte of a.
func subDigits(a, b []byte, shift, mult int, op string) byte {
	b = fitDigits(b, len(a), shift, op)
	borrow := 0
	i := len(a) - 1 - shift
	for j := len(b) - 1; j >= 0; j-- {
		acc := int(a[i]) - int(b[j])*mult - borrow
		a[i] = byte(acc)
		borrow = -(acc >> 8)
		i--
	}
	for ; i >= 0 && borrow != 0; i-- {
		acc := int(a[i]) - borrow
		a[i] = byte(acc)
		borrow = -(acc >> 8)
	}
	return byte(borrow)
}
