package bignat

import "github.com/coinbase/cb-bignat-go/pkg/ct"

// Cipher is the narrow view of an RSA cipher engine the modular layer drives
// as a raw modular exponentiation oracle: after Init(modulus, exponent),
// Process computes in^exponent mod modulus.
//
// Engines differ in how they treat leading zeros and short operands; the
// platform capability table records those quirks and this file adapts to
// them.
type Cipher interface {
	// BlockSize is the modulus length in bytes.
	BlockSize() int
	// Init loads a key. modulus is exactly BlockSize bytes.
	Init(modulus, exponent []byte) error
	// Process writes the result to out[outOff:] and returns its length,
	// which may be shorter than BlockSize on engines that strip zeros.
	Process(in []byte, inOff, inLen int, out []byte, outOff int) (int, error)
}

var two = []byte{2}

// ModExpHW sets x = x^e mod m on the RSA engine. It fails with ErrUnsupported
// when the platform cannot drive the engine as an exponentiation oracle and
// with ErrModulusTooLarge when m does not fit one block.
func (m *Modular) ModExpHW(x, e, mod *Nat) byte {
	if !m.r.caps.RSAModExp || m.r.engine == nil {
		return m.a.failIf(0xFF, "ModExpHW", ErrUnsupported)
	}
	if mod.size > m.r.engine.BlockSize() {
		return m.a.failIf(0xFF, "ModExpHW", ErrModulusTooLarge)
	}
	return m.hwExp("ModExpHW", x, e.digits(), mod)
}

// ModSqHW sets x = x^2 mod m on the RSA engine.
func (m *Modular) ModSqHW(x, mod *Nat) byte {
	if !m.r.caps.RSASquare || m.r.engine == nil {
		return m.a.failIf(0xFF, "ModSqHW", ErrUnsupported)
	}
	if mod.size > m.r.engine.BlockSize() {
		return m.a.failIf(0xFF, "ModSqHW", ErrModulusTooLarge)
	}
	return m.hwExp("ModSqHW", x, two, mod)
}

func (m *Modular) hwUsable(flag bool, mod *Nat) bool {
	return flag && m.r.engine != nil && mod.size <= m.r.engine.BlockSize()
}

// hwExp formats the operands into block-sized buffers, runs the engine and
// reads the result back. On failure x is zero and the error mask is set.
func (m *Modular) hwExp(op string, x *Nat, exp []byte, mod *Nat) byte {
	engine := m.r.engine
	caps := m.r.caps
	block := engine.BlockSize()

	modBuf := m.r.AcquireBuffer(BufferModulus)
	defer modBuf.Release()
	clear(modBuf.Bytes)
	if caps.RSAAppendModulus {
		// The engine wants a full-length modulus: use mod * 256^k and reduce
		// the result by mod afterwards.
		copy(modBuf.Bytes, trimDigits(mod.digits()))
	} else {
		copy(modBuf.Bytes[block-mod.size:], mod.digits())
	}
	if err := engine.Init(modBuf.Bytes[:block], exp); err != nil {
		m.r.logger.Warn("cipher engine rejected key", "op", op, "error", err.Error())
		return m.a.failIf(0xFF, op, ErrEngine)
	}

	t := m.r.Acquire(SlotModT1)
	defer t.Release()
	t.SetSize(max(x.size, mod.size))
	errMask := m.a.Copy(t.Nat, x)
	errMask |= m.a.Mod(t.Nat, mod)
	t.Resize(mod.size)

	in := m.r.AcquireBuffer(BufferInput)
	defer in.Release()
	out := m.r.AcquireBuffer(BufferOutput)
	defer out.Release()
	clear(in.Bytes)
	inLen := mod.size
	if caps.RSAResizeBase {
		inLen = block
	}
	t.CopyTo(in.Bytes[inLen-mod.size:])

	n, err := engine.Process(in.Bytes, 0, inLen, out.Bytes, 0)
	if err != nil || n > block {
		m.r.logger.Warn("cipher engine failed", "op", op)
		x.SetZero()
		return m.a.failIf(0xFF, op, ErrEngine)
	}
	errMask |= m.restoreLength(op, out.Bytes[:block], n)

	t.FromBytes(out.Bytes[:block])
	errMask |= m.a.Mod(t.Nat, mod)
	t.Resize(mod.size)
	x.Resize(mod.size)
	x.SetZero()
	m.a.Select(^errMask, x, t.Nat)
	return errMask
}

// restoreLength right-aligns an engine result of n bytes within block when
// the platform strips leading zeros, and flags ErrUnexpectedLength when it
// does not. The realignment runs for every n, including a full block.
func (m *Modular) restoreLength(op string, block []byte, n int) byte {
	if !m.r.caps.RSAPrependZeros {
		short := ct.ByteMask(^ct.EqualInt(n, len(block)))
		return m.a.failIf(short, op, ErrUnexpectedLength)
	}
	aux := m.r.AcquireBuffer(BufferAux)
	defer aux.Release()
	dst := aux.Bytes[:len(block)]
	clear(dst)
	ct.Copy(block, 0, dst, len(block)-n, n, 0)
	copy(block, dst)
	return 0
}

// squareHW sets dst = src^2 through the square engine, whose all-ones
// modulus is larger than any square it is asked for, so the result comes
// back unreduced.
func (m *Modular) squareHW(dst, src *Nat) byte {
	engine := m.r.square
	block := engine.BlockSize()

	in := m.r.AcquireBuffer(BufferInput)
	defer in.Release()
	out := m.r.AcquireBuffer(BufferOutput)
	defer out.Release()
	clear(in.Bytes)
	src.CopyTo(in.Bytes[block-src.size:])

	n, err := engine.Process(in.Bytes, 0, block, out.Bytes, 0)
	if err != nil || n > block {
		dst.SetZero()
		return m.a.failIf(0xFF, "squareHW", ErrEngine)
	}
	errMask := m.restoreLength("squareHW", out.Bytes[:block], n)
	errMask |= dst.CTCopy(&Nat{value: out.Bytes[:block], size: block})
	return errMask
}
