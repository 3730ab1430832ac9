package bignat

import (
	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
	"github.com/coinbase/cb-bignat-go/pkg/logging"
)

// Config expresses the knobs required to build a Resources.
type Config struct {
	// Target selects the capability table. The zero value is
	// platform.Software, which runs everything in software.
	Target platform.Target

	// MaxNatSize is the longest operand, in bytes, the modular layer is
	// expected to handle. Scratch slots are sized for products of two such
	// operands.
	MaxNatSize int

	// Engine is the RSA cipher used as an exponentiation oracle by ModExp and
	// ModSq. Leaving it nil keeps those operations in software.
	Engine Cipher

	// SquareEngine is a second cipher dedicated to the multiplication trick.
	// Its key (an all-ones modulus and exponent 2) is installed once and kept,
	// so it must not be the same instance as Engine. Leaving it nil keeps
	// multiplication in software.
	SquareEngine Cipher

	// Logger receives lifecycle events. Nil discards them.
	Logger logging.Logger
}

func (c Config) validate() error {
	if c.MaxNatSize <= 0 {
		return &Error{Op: "New", Err: ErrInvalidConfig}
	}
	return nil
}
