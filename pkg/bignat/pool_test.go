package bignat

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
	"github.com/coinbase/cb-bignat-go/pkg/rsaengine"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{MaxNatSize: -4})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewSizesPool(t *testing.T) {
	r := newTestResources(t, 32)
	assert.Equal(t, 32, r.MaxNatSize())
	assert.Equal(t, 66, r.natCapacity)
	assert.Equal(t, platform.Software, r.Target())
	assert.False(t, r.Capabilities().Hardware())

	engine := rsaengine.NewSoftware(128)
	r, err := New(Config{Target: platform.GD70, MaxNatSize: 16, Engine: engine})
	require.NoError(t, err)
	assert.Equal(t, 128, r.natCapacity, "slots must hold a full cipher block")
}

func TestLeaseLockDiscipline(t *testing.T) {
	r := newTestResources(t, 8)

	l := r.Acquire(SlotModT1)
	requireFatal(t, r, ErrLockMisuse, func() { r.Acquire(SlotModT1) })

	// Guard released every slot, including the one held above.
	l = r.Acquire(SlotModT1)
	l.Release()
	requireFatal(t, r, ErrLockMisuse, func() { l.Release() })

	b := r.AcquireBuffer(BufferAux)
	requireFatal(t, r, ErrLockMisuse, func() { r.AcquireBuffer(BufferAux) })
	b = r.AcquireBuffer(BufferAux)
	b.Release()
	requireFatal(t, r, ErrLockMisuse, func() { b.Release() })

	requireFatal(t, r, ErrLockMisuse, func() { r.Acquire(numSlots) })
	requireFatal(t, r, ErrLockMisuse, func() { r.AcquireBuffer(BufferSlot(-1)) })
}

func TestUnlockAll(t *testing.T) {
	r := newTestResources(t, 8)
	r.Acquire(SlotGcdA)
	r.Acquire(SlotGcdB)
	r.AcquireBuffer(BufferInput)

	assert.Equal(t, 3, r.pool.unlockAll())
	r.Acquire(SlotGcdA).Release()
	r.UnlockAll()
}

func TestOperationsReleaseTheirSlots(t *testing.T) {
	r := newTestResources(t, 16)
	m := r.Modular(ConstantTime)
	p := natOf(r, big.NewInt(7681), 2)
	x := natOf(r, big.NewInt(1234), 2)

	require.Zero(t, m.ModSqrt(x, p))
	require.Zero(t, m.ModInv(x, p))
	for s := Slot(0); s < numSlots; s++ {
		assert.False(t, r.pool.locked[s], "slot %s still locked", s)
	}
	for s := BufferSlot(0); s < numBufferSlots; s++ {
		assert.False(t, r.pool.bufferLocked[s], "buffer %s still locked", s)
	}
}

func TestNestedSlotUse(t *testing.T) {
	r := newTestResources(t, 8)
	x := natOf(r, big.NewInt(6), 1)

	// Holding the product slot while multiplying is a programming error.
	err := r.Guard(func() {
		held := r.Acquire(SlotProduct)
		defer held.Release()
		x.Mult(x, x)
	})
	require.ErrorIs(t, err, ErrLockMisuse)
}

func TestGuardPropagatesForeignPanics(t *testing.T) {
	r := newTestResources(t, 8)
	boom := errors.New("boom")
	assert.PanicsWithValue(t, boom, func() {
		_ = r.Guard(func() { panic(boom) })
	})
	assert.NoError(t, r.Guard(func() {}))
}

func TestErase(t *testing.T) {
	r := newPlatformResources(t, platform.Simulator, 8)
	l := r.Acquire(SlotModT2)
	l.FromBytes([]byte{1, 2, 3})
	l.Release()
	b := r.AcquireBuffer(BufferOutput)
	require.Len(t, b.Bytes, testBlockSize)
	for i := range b.Bytes {
		b.Bytes[i] = 0xAA
	}
	b.Release()

	r.Erase()
	assert.True(t, r.pool.leases[SlotModT2].IsZero())
	assert.Equal(t, make([]byte, testBlockSize), r.pool.buffers[BufferOutput].Bytes)
}

func TestBuffersFollowTheEngineBlock(t *testing.T) {
	r := newTestResources(t, 8)
	b := r.AcquireBuffer(BufferOutput)
	assert.Empty(t, b.Bytes, "no engine, no block")
	b.Release()
	r.Erase()
}

func TestRefreshAfterReset(t *testing.T) {
	caps := platform.Lookup(platform.J3H145)
	require.True(t, caps.RSAKeyRefresh)
	square := rsaengine.ForCapabilities(caps, testBlockSize)
	r, err := New(Config{Target: platform.J3H145, MaxNatSize: 16, SquareEngine: square})
	require.NoError(t, err)

	m := r.Modular(VariableTime)
	a, b := natOf(r, big.NewInt(1000), 2), natOf(r, big.NewInt(3000), 2)
	dst := r.NewNat(8)
	dst.SetSize(4)
	require.Zero(t, m.Mult(dst, a, b))
	assert.Equal(t, int64(3000000), toBig(dst).Int64())

	// A card reset drops the engine key.
	square.Reset()
	err = r.Guard(func() { m.Mult(dst, a, b) })
	require.ErrorIs(t, err, ErrEngine)

	require.NoError(t, r.RefreshAfterReset())
	require.Zero(t, m.Mult(dst, a, b))
	assert.Equal(t, int64(3000000), toBig(dst).Int64())
}

func TestRefreshWithoutCapabilityIsNoop(t *testing.T) {
	r := newTestResources(t, 8)
	require.NoError(t, r.RefreshAfterReset())
}

func TestSquareKeyRejected(t *testing.T) {
	// A square engine with a zero-length block cannot hold the key.
	_, err := New(Config{
		Target:       platform.GD60,
		MaxNatSize:   8,
		SquareEngine: rsaengine.NewSoftware(0),
	})
	require.ErrorIs(t, err, ErrEngine)
}

func TestSlotNames(t *testing.T) {
	assert.Equal(t, "product", SlotProduct.String())
	assert.Equal(t, "sqrt-tt", SlotSqrtTT.String())
	assert.Equal(t, "slot(99)", Slot(99).String())
	assert.Equal(t, "aux", BufferAux.String())
	assert.Equal(t, "buffer(-1)", BufferSlot(-1).String())
}
