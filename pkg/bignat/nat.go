package bignat

import (
	"encoding/hex"
	"runtime"
)

// Nat is a fixed-capacity, big-endian, unsigned integer. The magnitude lives
// right-aligned in a buffer allocated once: the active bytes are
// value[offset:] with offset = capacity - size. The capacity never changes.
//
// Bytes below the offset are zero for the variable-time methods. The
// constant-time methods (prefixed CT) never read them.
type Nat struct {
	value []byte
	size  int
	res   *Resources
}

func newNat(capacity int, res *Resources) *Nat {
	return &Nat{value: make([]byte, capacity), size: capacity, res: res}
}

// Capacity returns the fixed number of bytes the Nat can hold.
func (n *Nat) Capacity() int {
	return len(n.value)
}

// Size returns the current logical length in bytes.
func (n *Nat) Size() int {
	return n.size
}

func (n *Nat) offset() int {
	return len(n.value) - n.size
}

// digits returns the active bytes.
func (n *Nat) digits() []byte {
	return n.value[len(n.value)-n.size:]
}

// SetSize changes the logical length without touching any byte.
func (n *Nat) SetSize(size int) {
	if size < 0 || size > len(n.value) {
		fatalf("SetSize", ErrSizing, "size %d outside capacity %d", size, len(n.value))
	}
	n.size = size
}

// Resize changes the logical length. Growing zero-fills the newly exposed
// high bytes; shrinking drops high bytes. Low bytes are never moved.
func (n *Nat) Resize(size int) {
	old := n.size
	n.SetSize(size)
	if size > old {
		clear(n.value[n.offset() : n.offset()+size-old])
	}
}

// Shrink drops leading zero bytes, keeping at least one byte.
func (n *Nat) Shrink() {
	i := n.offset()
	for i < len(n.value)-1 && n.value[i] == 0 {
		i++
	}
	if n.size > 0 {
		n.size = len(n.value) - i
	}
}

// FromBytes sets the value to the big-endian bytes b and the size to len(b).
func (n *Nat) FromBytes(b []byte) {
	if len(b) > len(n.value) {
		fatalf("FromBytes", ErrSizing, "%d bytes exceed capacity %d", len(b), len(n.value))
	}
	n.size = len(b)
	copy(n.digits(), b)
}

// Bytes returns a copy of the active bytes.
func (n *Nat) Bytes() []byte {
	out := make([]byte, n.size)
	copy(out, n.digits())
	return out
}

// CopyTo writes the active bytes to the start of dst and returns the number
// of bytes written.
func (n *Nat) CopyTo(dst []byte) int {
	if len(dst) < n.size {
		fatalf("CopyTo", ErrSizing, "destination holds %d of %d bytes", len(dst), n.size)
	}
	return copy(dst, n.digits())
}

// Copy sets the value of n to the value of other while keeping the size of
// n. A shorter other is zero-extended; a longer one must have zero bytes in
// the positions that do not fit.
func (n *Nat) Copy(other *Nat) {
	if n == other {
		return
	}
	d, o := n.digits(), other.digits()
	diff := len(d) - len(o)
	if diff >= 0 {
		clear(d[:diff])
		copy(d[diff:], o)
		return
	}
	for _, b := range o[:-diff] {
		if b != 0 {
			fatal("Copy", ErrInvalidCopy)
		}
	}
	copy(d, o[-diff:])
}

// Clone sets n to other, including its size.
func (n *Nat) Clone(other *Nat) {
	if other.size > len(n.value) {
		fatalf("Clone", ErrSizing, "size %d exceeds capacity %d", other.size, len(n.value))
	}
	if n == other {
		return
	}
	n.size = other.size
	copy(n.digits(), other.digits())
}

// SetZero zeroes the active bytes.
func (n *Nat) SetZero() {
	clear(n.digits())
}

// Erase zeroes the whole buffer, including bytes outside the active range.
func (n *Nat) Erase() {
	for i := range n.value {
		n.value[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(n.value)
}

// SetValue sets n to the single byte v, keeping the size.
func (n *Nat) SetValue(v byte) {
	if n.size == 0 {
		fatal("SetValue", ErrSizing)
	}
	n.SetZero()
	n.value[len(n.value)-1] = v
}

// SetOne sets n to 1, keeping the size.
func (n *Nat) SetOne() {
	n.SetValue(1)
}

// String returns the active bytes in hexadecimal. It is meant for debugging;
// never log the result for secret values.
func (n *Nat) String() string {
	return hex.EncodeToString(n.digits())
}
