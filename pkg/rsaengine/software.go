package rsaengine

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
)

var (
	// ErrNoKey is returned by Process before Init or after Reset.
	ErrNoKey = errors.New("rsaengine: no key loaded")

	// ErrModulusLength is returned by Init for a modulus that is not exactly
	// one block, or that has a zero top byte on engines requiring a
	// full-length modulus.
	ErrModulusLength = errors.New("rsaengine: invalid modulus length")

	// ErrInputLength is returned by Process for an input longer than the
	// block, or shorter on engines that require a full block.
	ErrInputLength = errors.New("rsaengine: invalid input length")

	// ErrInputRange is returned by Process for an input not below the
	// modulus.
	ErrInputRange = errors.New("rsaengine: input not below modulus")
)

// Software is an RSA cipher engine computed with math/big. It is not
// constant time; it stands in for a coprocessor in tests and tools.
type Software struct {
	blockSize int
	modulus   *big.Int
	exponent  *big.Int

	stripZeros  bool
	fullModulus bool
	fullInput   bool
}

// Option configures a Software engine.
type Option func(*Software)

// WithStripLeadingZeros makes Process drop leading zero bytes from its
// output, as some coprocessors do.
func WithStripLeadingZeros() Option {
	return func(s *Software) {
		s.stripZeros = true
	}
}

// WithFullWidthModulus makes Init reject a modulus whose top byte is zero.
func WithFullWidthModulus() Option {
	return func(s *Software) {
		s.fullModulus = true
	}
}

// WithFullWidthInput makes Process reject inputs shorter than a block.
func WithFullWidthInput() Option {
	return func(s *Software) {
		s.fullInput = true
	}
}

// NewSoftware returns an engine with the given block size in bytes.
func NewSoftware(blockSize int, opts ...Option) *Software {
	s := &Software{blockSize: blockSize}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ForCapabilities returns an engine that behaves the way a platform with
// caps does.
func ForCapabilities(caps platform.Capabilities, blockSize int) *Software {
	var opts []Option
	if caps.RSAPrependZeros {
		opts = append(opts, WithStripLeadingZeros())
	}
	if caps.RSAAppendModulus {
		opts = append(opts, WithFullWidthModulus())
	}
	if caps.RSAResizeBase {
		opts = append(opts, WithFullWidthInput())
	}
	return NewSoftware(blockSize, opts...)
}

// BlockSize returns the modulus length in bytes.
func (s *Software) BlockSize() int {
	return s.blockSize
}

// Init loads the key.
func (s *Software) Init(modulus, exponent []byte) error {
	if len(modulus) != s.blockSize {
		return fmt.Errorf("%w: got %d bytes, block is %d", ErrModulusLength, len(modulus), s.blockSize)
	}
	if s.fullModulus && modulus[0] == 0 {
		return fmt.Errorf("%w: top byte is zero", ErrModulusLength)
	}
	mod := new(big.Int).SetBytes(modulus)
	if mod.Sign() == 0 {
		return fmt.Errorf("%w: modulus is zero", ErrModulusLength)
	}
	s.modulus = mod
	s.exponent = new(big.Int).SetBytes(exponent)
	return nil
}

// Process computes in[inOff:inOff+inLen]^exponent mod modulus into
// out[outOff:] and returns the number of bytes written.
func (s *Software) Process(in []byte, inOff, inLen int, out []byte, outOff int) (int, error) {
	if s.modulus == nil {
		return 0, ErrNoKey
	}
	if inLen > s.blockSize || (s.fullInput && inLen != s.blockSize) {
		return 0, fmt.Errorf("%w: %d bytes", ErrInputLength, inLen)
	}
	base := new(big.Int).SetBytes(in[inOff : inOff+inLen])
	if base.Cmp(s.modulus) >= 0 {
		return 0, ErrInputRange
	}
	res := new(big.Int).Exp(base, s.exponent, s.modulus)

	n := s.blockSize
	if s.stripZeros {
		n = len(res.Bytes())
	}
	if len(out)-outOff < n {
		return 0, fmt.Errorf("rsaengine: output holds %d of %d bytes", len(out)-outOff, n)
	}
	res.FillBytes(out[outOff : outOff+n])
	return n, nil
}

// Reset drops the loaded key, the way a coprocessor does across a card
// reset.
func (s *Software) Reset() {
	s.modulus = nil
	s.exponent = nil
}
