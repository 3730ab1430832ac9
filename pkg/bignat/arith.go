package bignat

// Arithmetic is an arithmetic strategy. VariableTime branches on values and
// panics on failure; ConstantTime runs in time independent of values and
// reports failures as an error mask. Conditions are byte masks in both.
//
// The modular layer is written once against this interface, so the choice of
// strategy is made explicitly by the caller for every operand class.
type Arithmetic interface {
	Name() string

	// Add sets x = x + y and returns 0xFF on overflow.
	Add(x, y *Nat) byte
	// Subtract sets x = x - y and returns 0xFF on borrow.
	Subtract(x, y *Nat) byte
	// Mult sets dst = x * y.
	Mult(dst, x, y *Nat) byte
	// RemainderDivide sets x = x mod divisor and the optional quotient.
	RemainderDivide(x, divisor, quotient *Nat) byte
	// Mod sets x = x mod m.
	Mod(x, m *Nat) byte
	// Gcd sets x = gcd(x, y).
	Gcd(x, y *Nat) byte
	// ShiftRight shifts x right by a public number of bits.
	ShiftRight(x *Nat, bits int)

	IsLesser(x, y *Nat) byte
	Equals(x, y *Nat) byte
	IsZero(x *Nat) byte
	IsOne(x *Nat) byte

	// Copy sets dst = src keeping the size of dst.
	Copy(dst, src *Nat) byte
	// Select sets dst = src when mask is 0xFF.
	Select(mask byte, dst, src *Nat)
	// Swap exchanges x and y when mask is 0xFF.
	Swap(mask byte, x, y *Nat)
	// Bit returns bit i of x as 0 or 1.
	Bit(x *Nat, i int) byte

	// failIf raises err when mask is 0xFF: a panic for VariableTime, the
	// mask itself for ConstantTime.
	failIf(mask byte, op string, err error) byte
}

var (
	// VariableTime is the fast strategy for public operands.
	VariableTime Arithmetic = varTime{}
	// ConstantTime is the branchless strategy for secret operands.
	ConstantTime Arithmetic = constTime{}
)

func boolMask(b bool) byte {
	if b {
		return 0xFF
	}
	return 0
}

type varTime struct{}

func (varTime) Name() string { return "variable-time" }

func (varTime) Add(x, y *Nat) byte      { return boolMask(x.Add(y) != 0) }
func (varTime) Subtract(x, y *Nat) byte { return boolMask(x.Subtract(y) != 0) }

func (varTime) Mult(dst, x, y *Nat) byte {
	dst.Mult(x, y)
	return 0
}

func (varTime) RemainderDivide(x, divisor, quotient *Nat) byte {
	x.RemainderDivide(divisor, quotient)
	return 0
}

func (varTime) Mod(x, m *Nat) byte {
	x.Mod(m)
	return 0
}

func (varTime) Gcd(x, y *Nat) byte {
	x.Gcd(y)
	return 0
}

func (varTime) ShiftRight(x *Nat, bits int) { x.ShiftRight(bits) }

func (varTime) IsLesser(x, y *Nat) byte { return boolMask(x.IsLesser(y)) }
func (varTime) Equals(x, y *Nat) byte   { return boolMask(x.Equals(y)) }
func (varTime) IsZero(x *Nat) byte      { return boolMask(x.IsZero()) }
func (varTime) IsOne(x *Nat) byte       { return boolMask(x.IsOne()) }

func (varTime) Copy(dst, src *Nat) byte {
	dst.Copy(src)
	return 0
}

func (varTime) Select(mask byte, dst, src *Nat) {
	if mask != 0 {
		dst.Copy(src)
	}
}

func (varTime) Swap(mask byte, x, y *Nat) {
	if x.size != y.size {
		fatalf("Swap", ErrSizing, "sizes %d and %d differ", x.size, y.size)
	}
	if mask != 0 {
		swapDigits(x, y)
	}
}

func (varTime) Bit(x *Nat, i int) byte {
	if i >= 8*x.size {
		return 0
	}
	d := x.digits()
	return (d[len(d)-1-i>>3] >> uint(i&7)) & 1
}

func (varTime) failIf(mask byte, op string, err error) byte {
	if mask != 0 {
		fatal(op, err)
	}
	return 0
}

type constTime struct{}

func (constTime) Name() string { return "constant-time" }

func (constTime) Add(x, y *Nat) byte      { return x.CTAdd(y, 0) }
func (constTime) Subtract(x, y *Nat) byte { return x.CTSubtract(y, 0) }
func (constTime) Mult(dst, x, y *Nat) byte {
	return dst.CTMult(x, y)
}

func (constTime) RemainderDivide(x, divisor, quotient *Nat) byte {
	return x.CTRemainderDivide(divisor, quotient)
}

func (constTime) Mod(x, m *Nat) byte          { return x.CTMod(m) }
func (constTime) Gcd(x, y *Nat) byte          { return x.CTGcd(y) }
func (constTime) ShiftRight(x *Nat, bits int) { x.CTShiftRight(bits, 0) }
func (constTime) IsLesser(x, y *Nat) byte     { return x.CTIsLesser(y) }
func (constTime) Equals(x, y *Nat) byte       { return x.CTEquals(y) }
func (constTime) IsZero(x *Nat) byte          { return x.CTIsZero() }
func (constTime) IsOne(x *Nat) byte           { return x.CTIsOne() }
func (constTime) Copy(dst, src *Nat) byte     { return dst.CTCopy(src) }

func (constTime) Select(mask byte, dst, src *Nat) { dst.CTSelect(mask, src) }
func (constTime) Swap(mask byte, x, y *Nat)       { x.CTSwap(mask, y) }
func (constTime) Bit(x *Nat, i int) byte          { return x.CTBit(i) }

func (constTime) failIf(mask byte, _ string, _ error) byte {
	return mask
}
