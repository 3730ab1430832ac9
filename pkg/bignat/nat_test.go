package bignat

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNatFromBytesRoundTrip(t *testing.T) {
	r := newTestResources(t, 8)
	n := r.NewNat(8)
	assert.Equal(t, 8, n.Capacity())
	assert.Equal(t, 8, n.Size())
	assert.True(t, n.IsZero())

	n.FromBytes([]byte{0x00, 0x12, 0x34})
	assert.Equal(t, 3, n.Size())
	assert.Equal(t, []byte{0x00, 0x12, 0x34}, n.Bytes())
	assert.Equal(t, "001234", n.String())

	dst := make([]byte, 4)
	assert.Equal(t, 3, n.CopyTo(dst))
	assert.Equal(t, []byte{0x00, 0x12, 0x34, 0x00}, dst)

	requireFatal(t, r, ErrSizing, func() { n.FromBytes(make([]byte, 9)) })
	requireFatal(t, r, ErrSizing, func() { n.CopyTo(make([]byte, 2)) })
}

func TestNatResize(t *testing.T) {
	r := newTestResources(t, 8)
	n := r.NewNat(8)
	n.FromBytes([]byte{0xAA, 0xBB, 0xCC})

	n.Resize(2)
	assert.Equal(t, []byte{0xBB, 0xCC}, n.Bytes())

	n.Resize(5)
	assert.Equal(t, []byte{0, 0, 0, 0xBB, 0xCC}, n.Bytes(), "growth must be zero filled")
	assert.Equal(t, 8, n.Capacity())

	requireFatal(t, r, ErrSizing, func() { n.Resize(9) })
	requireFatal(t, r, ErrSizing, func() { n.SetSize(-1) })
}

func TestNatShrink(t *testing.T) {
	r := newTestResources(t, 8)
	n := r.NewNat(8)

	n.FromBytes([]byte{0, 0, 0x01, 0x00})
	n.Shrink()
	assert.Equal(t, []byte{0x01, 0x00}, n.Bytes())

	n.FromBytes([]byte{0, 0, 0})
	n.Shrink()
	assert.Equal(t, []byte{0}, n.Bytes(), "shrink keeps one byte")

	n.FromBytes([]byte{0, 0, 0x07})
	n.CTShrink()
	assert.Equal(t, []byte{0x07}, n.Bytes())

	n.FromBytes([]byte{0, 0, 0})
	n.CTShrink()
	assert.Equal(t, 1, n.Size())

	n.FromBytes([]byte{0x80, 0, 0})
	n.CTShrink()
	assert.Equal(t, 3, n.Size())
}

func TestNatCopy(t *testing.T) {
	r := newTestResources(t, 8)
	dst := r.NewNat(8)
	src := r.NewNat(8)

	dst.FromBytes([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	src.FromBytes([]byte{0x12, 0x34})
	dst.Copy(src)
	assert.Equal(t, []byte{0, 0, 0x12, 0x34}, dst.Bytes())

	src.FromBytes([]byte{0, 0, 0, 0, 0x56})
	dst.Copy(src)
	assert.Equal(t, []byte{0, 0, 0, 0x56}, dst.Bytes())

	src.FromBytes([]byte{0x01, 0, 0, 0, 0x56})
	requireFatal(t, r, ErrInvalidCopy, func() { dst.Copy(src) })

	dst.FromBytes([]byte{0xFF, 0xFF})
	assert.Equal(t, byte(0xFF), dst.CTCopy(src))
	assert.Equal(t, []byte{0, 0x56}, dst.Bytes(), "low bytes are copied even on failure")

	src.FromBytes([]byte{0x9A})
	assert.Equal(t, byte(0), dst.CTCopy(src))
	assert.Equal(t, []byte{0, 0x9A}, dst.Bytes())
}

func TestNatClone(t *testing.T) {
	r := newTestResources(t, 8)
	small := r.NewNat(2)
	wide := r.NewNat(8)
	wide.FromBytes([]byte{1, 2, 3})

	requireFatal(t, r, ErrSizing, func() { small.Clone(wide) })

	other := r.NewNat(8)
	other.Clone(wide)
	assert.Equal(t, 3, other.Size())
	assert.True(t, other.Equals(wide))
}

func TestNatSetValueAndErase(t *testing.T) {
	r := newTestResources(t, 8)
	n := r.NewNat(4)
	n.FromBytes([]byte{9, 9, 9})
	n.SetValue(0x42)
	assert.Equal(t, []byte{0, 0, 0x42}, n.Bytes())
	n.SetOne()
	assert.True(t, n.IsOne())
	assert.Equal(t, byte(0xFF), n.CTIsOne())

	n.Erase()
	n.Resize(4)
	assert.Equal(t, []byte{0, 0, 0, 0}, n.Bytes())

	n.SetSize(0)
	requireFatal(t, r, ErrSizing, func() { n.SetValue(1) })
}

func TestNatBits(t *testing.T) {
	r := newTestResources(t, 8)
	n := natOf(r, big.NewInt(0b1010_0000_0001), 2)
	for _, s := range strategies {
		assert.Equal(t, byte(1), s.Bit(n, 0), s.Name())
		assert.Equal(t, byte(0), s.Bit(n, 1), s.Name())
		assert.Equal(t, byte(1), s.Bit(n, 9), s.Name())
		assert.Equal(t, byte(1), s.Bit(n, 11), s.Name())
		assert.Equal(t, byte(0), s.Bit(n, 16), s.Name())
	}
	assert.True(t, n.IsOdd())
}

func TestNatNegativeCapacity(t *testing.T) {
	r := newTestResources(t, 8)
	err := r.Guard(func() { r.NewNat(-1) })
	require.ErrorIs(t, err, ErrSizing)
}
