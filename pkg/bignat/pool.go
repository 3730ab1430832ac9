package bignat

import "fmt"

// Slot names a scratch Nat. The slot table is a static allocation plan:
// every operation family owns its slots and never holds one across a call
// that needs the same slot.
type Slot int

const (
	// SlotProduct holds the full product in Mult and CTMult.
	SlotProduct Slot = iota
	// SlotDivRem and SlotDivTrial hold the running remainder and the trial
	// subtraction in CTRemainderDivide.
	SlotDivRem
	SlotDivTrial
	// SlotGcdA, SlotGcdB and SlotGcdT are the working values of Gcd and CTGcd.
	SlotGcdA
	SlotGcdB
	SlotGcdT
	// SlotSquareSum, SlotSquareDiff and SlotSquareProd hold a+b, |a-b| and a
	// square in CTMultSquares.
	SlotSquareSum
	SlotSquareDiff
	SlotSquareProd
	// SlotModT1 and SlotModT2 are the accumulators of the modular layer.
	SlotModT1
	SlotModT2
	// SlotModR0 and SlotModR1 are the ladder registers of ModExp.
	SlotModR0
	SlotModR1
	// SlotModE holds derived exponents in ModInv and IsQuadraticResidue.
	SlotModE
	// SlotModQR holds the Euler criterion power in IsQuadraticResidue.
	SlotModQR
	// SlotSqrtQ through SlotSqrtTT are the Tonelli-Shanks registers.
	SlotSqrtQ
	SlotSqrtC
	SlotSqrtT
	SlotSqrtR
	SlotSqrtB
	SlotSqrtTT

	numSlots
)

var slotNames = [numSlots]string{
	"product", "div-rem", "div-trial", "gcd-a", "gcd-b", "gcd-t",
	"square-sum", "square-diff", "square-prod", "mod-t1", "mod-t2",
	"mod-r0", "mod-r1", "mod-e", "mod-qr", "sqrt-q", "sqrt-c", "sqrt-t",
	"sqrt-r", "sqrt-b", "sqrt-tt",
}

func (s Slot) String() string {
	if s >= 0 && s < numSlots {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// BufferSlot names a scratch byte buffer. Buffers are one cipher block long.
type BufferSlot int

const (
	BufferModulus BufferSlot = iota
	BufferInput
	BufferOutput
	BufferAux

	numBufferSlots
)

var bufferNames = [numBufferSlots]string{"modulus", "input", "output", "aux"}

func (s BufferSlot) String() string {
	if s >= 0 && s < numBufferSlots {
		return bufferNames[s]
	}
	return fmt.Sprintf("buffer(%d)", int(s))
}

// Lease is the guard returned by Acquire. It embeds the scratch Nat; Release
// hands the slot back. A lease must not be used after Release.
type Lease struct {
	*Nat
	pool *pool
	slot Slot
}

// Release unlocks the slot. Releasing a free slot is fatal.
func (l *Lease) Release() {
	l.pool.unlock(l.slot)
}

// BufferLease is the guard returned by AcquireBuffer.
type BufferLease struct {
	Bytes []byte
	pool  *pool
	slot  BufferSlot
}

// Release unlocks the buffer. Releasing a free buffer is fatal.
func (l *BufferLease) Release() {
	l.pool.unlockBuffer(l.slot)
}

type pool struct {
	leases       [numSlots]Lease
	locked       [numSlots]bool
	buffers      [numBufferSlots]BufferLease
	bufferLocked [numBufferSlots]bool
}

func newPool(res *Resources, natCapacity, bufferSize int) *pool {
	p := &pool{}
	for s := Slot(0); s < numSlots; s++ {
		p.leases[s] = Lease{Nat: newNat(natCapacity, res), pool: p, slot: s}
	}
	for s := BufferSlot(0); s < numBufferSlots; s++ {
		p.buffers[s] = BufferLease{Bytes: make([]byte, bufferSize), pool: p, slot: s}
	}
	return p
}

func (p *pool) lock(s Slot) *Lease {
	if s < 0 || s >= numSlots {
		fatalf("Acquire", ErrLockMisuse, "unknown slot %d", int(s))
	}
	if p.locked[s] {
		fatalf("Acquire", ErrLockMisuse, "slot %s already locked", s)
	}
	p.locked[s] = true
	return &p.leases[s]
}

func (p *pool) unlock(s Slot) {
	if !p.locked[s] {
		fatalf("Release", ErrLockMisuse, "slot %s is not locked", s)
	}
	p.locked[s] = false
}

func (p *pool) lockBuffer(s BufferSlot) *BufferLease {
	if s < 0 || s >= numBufferSlots {
		fatalf("AcquireBuffer", ErrLockMisuse, "unknown buffer %d", int(s))
	}
	if p.bufferLocked[s] {
		fatalf("AcquireBuffer", ErrLockMisuse, "buffer %s already locked", s)
	}
	p.bufferLocked[s] = true
	return &p.buffers[s]
}

func (p *pool) unlockBuffer(s BufferSlot) {
	if !p.bufferLocked[s] {
		fatalf("Release", ErrLockMisuse, "buffer %s is not locked", s)
	}
	p.bufferLocked[s] = false
}

// unlockAll frees every slot and returns how many were held.
func (p *pool) unlockAll() int {
	held := 0
	for s := range p.locked {
		if p.locked[s] {
			held++
			p.locked[s] = false
		}
	}
	for s := range p.bufferLocked {
		if p.bufferLocked[s] {
			held++
			p.bufferLocked[s] = false
		}
	}
	return held
}

func (p *pool) erase() {
	for s := range p.leases {
		p.leases[s].Erase()
	}
	for s := range p.buffers {
		clear(p.buffers[s].Bytes)
	}
}
