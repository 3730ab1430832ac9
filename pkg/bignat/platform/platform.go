package platform

import (
	"fmt"
	"strings"
)

// Target identifies a supported device class.
type Target int

const (
	// Software runs every operation in software. It is the zero value.
	Software Target = iota
	// Simulator is the card simulator used during development.
	Simulator
	J2E145G
	J3H145
	J3R180
	GD60
	GD70
	Secora
)

var targetNames = map[Target]string{
	Software:  "software",
	Simulator: "simulator",
	J2E145G:   "j2e145g",
	J3H145:    "j3h145",
	J3R180:    "j3r180",
	GD60:      "gd60",
	GD70:      "gd70",
	Secora:    "secora",
}

// String returns the lower-case target name.
func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// ParseTarget maps a target name, case-insensitively, to a Target.
func ParseTarget(name string) (Target, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for t, n := range targetNames {
		if n == want {
			return t, nil
		}
	}
	return Software, fmt.Errorf("platform: unknown target %q", name)
}

// Targets lists every supported target in declaration order.
func Targets() []Target {
	return []Target{Software, Simulator, J2E145G, J3H145, J3R180, GD60, GD70, Secora}
}

// Capabilities is the read-only set of hardware tricks and quirks of a
// target.
type Capabilities struct {
	// RSAModExp: the RSA engine accepts an arbitrary public exponent and can
	// serve as a modular exponentiation oracle.
	RSAModExp bool
	// RSASquare: the RSA engine accepts exponent 2 under an arbitrary modulus.
	RSASquare bool
	// RSAMultTrick: full products may be computed from two engine squarings
	// under an all-ones modulus.
	RSAMultTrick bool
	// RSAPrependZeros: the engine strips leading zero bytes from its output;
	// they must be prepended again to reach the block size.
	RSAPrependZeros bool
	// RSAResizeBase: the engine input must be zero padded to the block size.
	RSAResizeBase bool
	// RSAAppendModulus: the engine rejects moduli with a zero top byte, so a
	// short modulus is extended by appending zero bytes and the result is
	// reduced afterwards.
	RSAAppendModulus bool
	// RSAKeyRefresh: engine keys do not survive a card reset and must be
	// re-established.
	RSAKeyRefresh bool
}

var table = map[Target]Capabilities{
	Software: {},
	Simulator: {
		RSAModExp:       true,
		RSASquare:       true,
		RSAMultTrick:    true,
		RSAPrependZeros: true,
		RSAResizeBase:   true,
	},
	J2E145G: {
		RSAModExp:     true,
		RSASquare:     true,
		RSAMultTrick:  true,
		RSAResizeBase: true,
	},
	J3H145: {
		RSAModExp:       true,
		RSASquare:       true,
		RSAMultTrick:    true,
		RSAPrependZeros: true,
		RSAResizeBase:   true,
		RSAKeyRefresh:   true,
	},
	J3R180: {
		RSAModExp:        true,
		RSASquare:        true,
		RSAMultTrick:     true,
		RSAResizeBase:    true,
		RSAAppendModulus: true,
		RSAKeyRefresh:    true,
	},
	GD60: {
		RSASquare:       true,
		RSAMultTrick:    true,
		RSAPrependZeros: true,
	},
	GD70: {
		RSAModExp:       true,
		RSASquare:       true,
		RSAPrependZeros: true,
		RSAResizeBase:   true,
	},
	Secora: {
		RSAModExp:        true,
		RSAAppendModulus: true,
		RSAResizeBase:    true,
	},
}

// Lookup returns the capability table of t. Unknown targets get the empty
// table, which disables every hardware path.
func Lookup(t Target) Capabilities {
	return table[t]
}

// Hardware reports whether any engine-backed operation is enabled.
func (c Capabilities) Hardware() bool {
	return c.RSAModExp || c.RSASquare || c.RSAMultTrick
}
