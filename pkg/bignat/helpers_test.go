package bignat

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var strategies = []Arithmetic{VariableTime, ConstantTime}

func newTestResources(t testing.TB, maxNatSize int) *Resources {
	t.Helper()
	r, err := New(Config{MaxNatSize: maxNatSize})
	require.NoError(t, err)
	return r
}

// natOf returns a Nat holding v at the given size, with room to grow.
func natOf(r *Resources, v *big.Int, size int) *Nat {
	n := r.NewNat(r.natCapacity)
	n.FromBytes(v.FillBytes(make([]byte, size)))
	return n
}

func natHex(t testing.TB, r *Resources, s string, size int) *Nat {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok, s)
	return natOf(r, v, size)
}

func toBig(n *Nat) *big.Int {
	return new(big.Int).SetBytes(n.digits())
}

// randBig returns a value of at most size bytes, sometimes with leading
// zero bytes and sometimes zero.
func randBig(rng *rand.Rand, size int) *big.Int {
	b := make([]byte, size)
	rng.Read(b)
	switch rng.Intn(8) {
	case 0:
		clear(b)
	case 1:
		clear(b[:rng.Intn(size+1)])
	}
	return new(big.Int).SetBytes(b)
}

// requireFatal runs fn as a command and checks it aborted with target.
func requireFatal(t testing.TB, r *Resources, target error, fn func()) {
	t.Helper()
	err := r.Guard(fn)
	require.ErrorIs(t, err, target)
	var e *Error
	require.ErrorAs(t, err, &e)
}
