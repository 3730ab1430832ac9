package bignat

// Modular is the modular arithmetic layer. It borrows scratch slots from its
// Resources and runs every step with the arithmetic strategy it was built
// with. Results take the size of the modulus; the modulus itself is public.
//
// Every operation returns an error mask. With VariableTime the mask is
// always zero because failures panic instead.
type Modular struct {
	r *Resources
	a Arithmetic
}

// Modular returns the modular layer of r driven by the strategy a.
func (r *Resources) Modular(a Arithmetic) *Modular {
	return &Modular{r: r, a: a}
}

// Arithmetic returns the strategy m was built with.
func (m *Modular) Arithmetic() Arithmetic {
	return m.a
}

// Mod sets x = x mod mod.
func (m *Modular) Mod(x, mod *Nat) byte {
	errMask := m.a.Mod(x, mod)
	x.Resize(mod.size)
	return errMask
}

// ModAdd sets x = (x + y) mod mod. Inputs need not be reduced.
func (m *Modular) ModAdd(x, y, mod *Nat) byte {
	t := m.r.Acquire(SlotModT1)
	defer t.Release()

	t.SetSize(max(x.size, y.size) + 1)
	errMask := m.a.Copy(t.Nat, x)
	errMask |= m.a.Add(t.Nat, y)
	errMask |= m.a.Mod(t.Nat, mod)
	return errMask | m.store(x, t.Nat, mod)
}

// ModSub sets x = (x - y) mod mod. Inputs need not be reduced.
func (m *Modular) ModSub(x, y, mod *Nat) byte {
	t1 := m.r.Acquire(SlotModT1)
	defer t1.Release()
	t2 := m.r.Acquire(SlotModT2)
	defer t2.Release()

	t1.SetSize(max(x.size, mod.size) + 1)
	errMask := m.a.Copy(t1.Nat, x)
	errMask |= m.a.Mod(t1.Nat, mod)
	t2.SetSize(max(y.size, mod.size))
	errMask |= m.a.Copy(t2.Nat, y)
	errMask |= m.a.Mod(t2.Nat, mod)

	// x' + mod - y' is positive and below 2 * mod.
	errMask |= m.a.Add(t1.Nat, mod)
	errMask |= m.a.Subtract(t1.Nat, t2.Nat)
	errMask |= m.a.Mod(t1.Nat, mod)
	return errMask | m.store(x, t1.Nat, mod)
}

// ModNegate sets x = -x mod mod.
func (m *Modular) ModNegate(x, mod *Nat) byte {
	t1 := m.r.Acquire(SlotModT1)
	defer t1.Release()
	t2 := m.r.Acquire(SlotModT2)
	defer t2.Release()

	t1.SetSize(max(x.size, mod.size))
	errMask := m.a.Copy(t1.Nat, x)
	errMask |= m.a.Mod(t1.Nat, mod)
	t2.SetSize(mod.size)
	errMask |= m.a.Copy(t2.Nat, mod)
	errMask |= m.a.Subtract(t2.Nat, t1.Nat)
	errMask |= m.a.Mod(t2.Nat, mod)
	return errMask | m.store(x, t2.Nat, mod)
}

// ModMult sets x = x * y mod mod.
func (m *Modular) ModMult(x, y, mod *Nat) byte {
	t := m.r.Acquire(SlotModT1)
	defer t.Release()

	t.SetSize(x.size + y.size)
	errMask := m.Mult(t.Nat, x, y)
	errMask |= m.a.Mod(t.Nat, mod)
	return errMask | m.store(x, t.Nat, mod)
}

// ModSq sets x = x^2 mod mod, on the RSA engine when the platform allows it.
func (m *Modular) ModSq(x, mod *Nat) byte {
	if m.hwUsable(m.r.caps.RSASquare, mod) {
		return m.ModSqHW(x, mod)
	}
	return m.ModMult(x, x, mod)
}

// Mult sets dst = x * y without reduction. When the platform supports the
// multiplication trick and the operands are short enough, the product is
// formed from two squarings on the square engine.
func (m *Modular) Mult(dst, x, y *Nat) byte {
	l := max(x.size, y.size) + 1
	if m.r.squareTrick() && 2*l <= m.r.square.BlockSize() {
		errMask := dst.CTMultSquares(x, y, m.squareHW)
		return m.a.failIf(errMask, "Mult", ErrSizing)
	}
	return m.a.Mult(dst, x, y)
}

// ModExp sets x = x^e mod mod. The RSA engine is used when the platform
// allows it; otherwise a Montgomery ladder processes every bit of e with the
// same sequence of operations.
func (m *Modular) ModExp(x, e, mod *Nat) byte {
	if m.hwUsable(m.r.caps.RSAModExp, mod) {
		return m.ModExpHW(x, e, mod)
	}

	r0 := m.r.Acquire(SlotModR0)
	defer r0.Release()
	r1 := m.r.Acquire(SlotModR1)
	defer r1.Release()

	r0.SetSize(mod.size)
	r0.SetOne()
	errMask := m.a.Mod(r0.Nat, mod)
	r1.SetSize(max(x.size, mod.size))
	errMask |= m.a.Copy(r1.Nat, x)
	errMask |= m.a.Mod(r1.Nat, mod)
	r1.Resize(mod.size)

	for i := 8*e.size - 1; i >= 0; i-- {
		bit := -m.a.Bit(e, i)
		m.a.Swap(bit, r0.Nat, r1.Nat)
		errMask |= m.ModMult(r1.Nat, r0.Nat, mod)
		errMask |= m.ModSq(r0.Nat, mod)
		m.a.Swap(bit, r0.Nat, r1.Nat)
	}
	return errMask | m.store(x, r0.Nat, mod)
}

// ModInv sets x = x^-1 mod p for a prime p by Fermat's little theorem. The
// inverse of zero is zero.
func (m *Modular) ModInv(x, p *Nat) byte {
	e := m.r.Acquire(SlotModE)
	defer e.Release()

	e.Clone(p)
	errMask := m.a.Subtract(e.Nat, &Nat{value: two, size: 1})
	return errMask | m.ModExp(x, e.Nat, p)
}

// IsQuadraticResidue returns 0xFF when x is a non-zero square modulo the odd
// prime p, by Euler's criterion.
func (m *Modular) IsQuadraticResidue(x, p *Nat) (residue, errMask byte) {
	e := m.r.Acquire(SlotModE)
	defer e.Release()
	q := m.r.Acquire(SlotModQR)
	defer q.Release()

	e.Clone(p)
	m.a.ShiftRight(e.Nat, 1)
	q.SetSize(max(x.size, p.size))
	errMask = m.a.Copy(q.Nat, x)
	errMask |= m.ModExp(q.Nat, e.Nat, p)
	return m.a.IsOne(q.Nat), errMask
}

// Gcd sets x = gcd(x, y).
func (m *Modular) Gcd(x, y *Nat) byte {
	return m.a.Gcd(x, y)
}

// IsCoprime returns 0xFF when gcd(x, y) == 1. x and y are left unchanged.
func (m *Modular) IsCoprime(x, y *Nat) (coprime, errMask byte) {
	t := m.r.Acquire(SlotModT1)
	defer t.Release()

	t.SetSize(max(x.size, y.size))
	errMask = m.a.Copy(t.Nat, x)
	errMask |= m.a.Gcd(t.Nat, y)
	return m.a.IsOne(t.Nat), errMask
}

// store writes the reduced value t into x at the size of mod.
func (m *Modular) store(x, t, mod *Nat) byte {
	x.Resize(mod.size)
	return m.a.Copy(x, t)
}
