package bignat

import (
	"fmt"

	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
	"github.com/coinbase/cb-bignat-go/pkg/logging"
)

// Resources is the resource manager of the engine: it owns the scratch pool,
// the capability table and the cipher engines. A Resources is not safe for
// concurrent use; independent instances share nothing.
type Resources struct {
	target      platform.Target
	caps        platform.Capabilities
	engine      Cipher
	square      Cipher
	maxNatSize  int
	natCapacity int
	blockSize   int
	pool        *pool
	logger      logging.Logger
}

// New allocates the scratch pool described by cfg and installs the squaring
// key when the multiplication trick is enabled.
func New(cfg Config) (*Resources, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Resources{
		target:     cfg.Target,
		caps:       platform.Lookup(cfg.Target),
		engine:     cfg.Engine,
		square:     cfg.SquareEngine,
		maxNatSize: cfg.MaxNatSize,
		logger:     cfg.Logger,
	}
	if r.logger == nil {
		r.logger = logging.Nop()
	}
	r.logger = r.logger.With("target", r.target.String())

	if r.engine != nil {
		r.blockSize = r.engine.BlockSize()
	}
	if r.square != nil {
		r.blockSize = max(r.blockSize, r.square.BlockSize())
	}
	r.natCapacity = max(2*cfg.MaxNatSize+2, r.blockSize)
	r.pool = newPool(r, r.natCapacity, r.blockSize)

	if r.caps.Hardware() && r.engine == nil && r.square == nil {
		r.logger.Warn("platform advertises an RSA engine but none is configured; using software arithmetic")
	}
	if err := r.installSquareKey(); err != nil {
		return nil, err
	}

	r.logger.Info("scratch pool allocated",
		"slots", int(numSlots),
		"buffers", int(numBufferSlots),
		"capacity", r.natCapacity,
		"block", r.blockSize,
	)
	return r, nil
}

// NewNat allocates a Nat of the given capacity bound to r. Its size starts at
// capacity and its value at zero.
func (r *Resources) NewNat(capacity int) *Nat {
	if capacity < 0 {
		fatalf("NewNat", ErrSizing, "negative capacity %d", capacity)
	}
	return newNat(capacity, r)
}

// Target returns the platform target r was built for.
func (r *Resources) Target() platform.Target {
	return r.target
}

// Capabilities returns the capability table in force.
func (r *Resources) Capabilities() platform.Capabilities {
	return r.caps
}

// MaxNatSize returns the configured maximum operand size.
func (r *Resources) MaxNatSize() int {
	return r.maxNatSize
}

// Acquire locks a scratch slot and returns its guard. Locking a slot that is
// already held is fatal.
func (r *Resources) Acquire(s Slot) *Lease {
	return r.pool.lock(s)
}

// AcquireBuffer locks a scratch buffer and returns its guard.
func (r *Resources) AcquireBuffer(s BufferSlot) *BufferLease {
	return r.pool.lockBuffer(s)
}

// UnlockAll releases every slot and buffer. It is meant for recovery after a
// fatal error and for test resets.
func (r *Resources) UnlockAll() {
	if held := r.pool.unlockAll(); held > 0 {
		r.logger.Warn("released scratch slots still held", "count", held)
	}
}

// RefreshAfterReset re-establishes engine state that does not survive a
// hardware reset.
func (r *Resources) RefreshAfterReset() error {
	if !r.caps.RSAKeyRefresh {
		return nil
	}
	r.logger.Info("refreshing cipher keys after reset")
	return r.installSquareKey()
}

// Erase zeroes every scratch slot and buffer.
func (r *Resources) Erase() {
	r.pool.erase()
}

// Guard runs fn as one command. A fatal engine error raised inside fn is
// recovered, every scratch slot is released, and the error is returned.
// Panics that do not come from the engine are propagated.
func (r *Resources) Guard(fn func()) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		e, ok := rec.(*Error)
		if !ok {
			panic(rec)
		}
		r.logger.Warn("operation aborted", "op", e.Op, "error", e.Err.Error())
		r.UnlockAll()
		err = e
	}()
	fn()
	return nil
}

func (r *Resources) squareTrick() bool {
	return r.caps.RSAMultTrick && r.square != nil
}

// installSquareKey loads the all-ones modulus and exponent 2 into the square
// engine. Products below half the block then come back unreduced.
func (r *Resources) installSquareKey() error {
	if !r.squareTrick() {
		return nil
	}
	buf := r.AcquireBuffer(BufferModulus)
	defer buf.Release()

	mod := buf.Bytes[:r.square.BlockSize()]
	for i := range mod {
		mod[i] = 0xFF
	}
	if err := r.square.Init(mod, []byte{2}); err != nil {
		return &Error{Op: "installSquareKey", Err: fmt.Errorf("%w: %v", ErrEngine, err)}
	}
	return nil
}
