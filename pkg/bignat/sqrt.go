package bignat

import "github.com/coinbase/cb-bignat-go/pkg/ct"

// ModSqrt sets x to a square root of x modulo the odd prime p with the
// Tonelli-Shanks algorithm. The decomposition p - 1 = q * 2^s and the search
// for a non-residue depend only on p. The main loop always runs s rounds and
// each round squares a fixed number of times; rounds after convergence are
// computed and discarded.
//
// When x is not a square modulo p, x is set to zero and the error mask is
// 0xFF. The root of zero (or of any multiple of p) is zero.
func (m *Modular) ModSqrt(x, p *Nat) byte {
	q := m.r.Acquire(SlotSqrtQ)
	defer q.Release()
	c := m.r.Acquire(SlotSqrtC)
	defer c.Release()
	t := m.r.Acquire(SlotSqrtT)
	defer t.Release()
	root := m.r.Acquire(SlotSqrtR)
	defer root.Release()
	b := m.r.Acquire(SlotSqrtB)
	defer b.Release()
	tt := m.r.Acquire(SlotSqrtTT)
	defer tt.Release()

	// p - 1 = q * 2^s with q odd; p is public.
	q.Clone(p)
	q.Decrement()
	s := 0
	for !q.IsZero() && !q.IsOdd() {
		q.ShiftRight(1)
		s++
	}

	residue, errMask := m.IsQuadraticResidue(x, p)

	// c = z^q for the smallest non-residue z > 1.
	c.SetSize(p.size)
	c.SetValue(2)
	for s > 1 {
		r, _ := m.IsQuadraticResidue(c.Nat, p)
		if r == 0 {
			break
		}
		c.Increment()
	}
	errMask |= m.ModExp(c.Nat, q.Nat, p)

	// t = x^q, root = x^((q+1)/2).
	t.SetSize(max(x.size, p.size))
	errMask |= m.a.Copy(t.Nat, x)
	errMask |= m.ModExp(t.Nat, q.Nat, p)
	zero := m.a.IsZero(t.Nat)
	b.Clone(q.Nat)
	b.Increment()
	b.ShiftRight(1)
	root.SetSize(max(x.size, p.size))
	errMask |= m.a.Copy(root.Nat, x)
	errMask |= m.ModExp(root.Nat, b.Nat, p)

	order := s
	for range s {
		done := m.a.IsOne(t.Nat) | m.a.IsZero(t.Nat)

		// Least i in (0, order) with t^(2^i) = 1.
		tt.Clone(t.Nat)
		least, found := 0, 0
		for i := 1; i < s; i++ {
			errMask |= m.ModSq(tt.Nat, p)
			hit := ct.IntMask(m.a.IsOne(tt.Nat)) &^ found
			least = ct.SelectInt(hit, i, least)
			found |= hit
		}

		// b = c^(2^(order-least-1)).
		b.Clone(c.Nat)
		for j := 0; j < s-1; j++ {
			tt.Clone(b.Nat)
			errMask |= m.ModSq(tt.Nat, p)
			active := ct.ByteMask(ct.LessThanInt(j, order-least-1))
			m.a.Select(active, b.Nat, tt.Nat)
		}

		update := ^done
		order = ct.SelectInt(ct.IntMask(update), least, order)

		tt.Clone(b.Nat)
		errMask |= m.ModSq(tt.Nat, p)
		m.a.Select(update, c.Nat, tt.Nat)

		tt.Clone(t.Nat)
		errMask |= m.ModMult(tt.Nat, c.Nat, p)
		m.a.Select(update, t.Nat, tt.Nat)

		tt.Clone(root.Nat)
		errMask |= m.ModMult(tt.Nat, b.Nat, p)
		m.a.Select(update, root.Nat, tt.Nat)
	}

	x.Resize(p.size)
	x.SetZero()
	m.a.Select(residue, x, root.Nat)
	return errMask | (^residue & ^zero)
}
