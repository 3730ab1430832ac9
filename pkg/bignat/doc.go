// Package bignat implements fixed-capacity unsigned big integers for
// memory-constrained secure elements.
//
// A Nat never reallocates. Its bytes are right aligned in a buffer whose
// length is fixed at construction, so every operation works on explicit,
// public sizes. Temporaries come from a scratch pool owned by Resources and
// are handed out as leases; a slot taken twice in one call chain is a fatal
// programming error.
//
// Every non-trivial operation exists twice. The plain methods (Add, Mult,
// RemainderDivide, Gcd...) branch on values and are meant for public data.
// The CT-prefixed methods run the same computation with control flow and
// memory accesses that depend only on sizes, and report failures through
// byte masks instead of panics. Modular, the modular arithmetic layer, is
// parameterized by one of the two strategies, VariableTime or ConstantTime.
//
// On platforms whose capability table allows it, Modular drives an RSA
// cipher engine (see Cipher) as a modular exponentiation oracle, and can
// multiply through two squarings on an engine keyed with an all-ones
// modulus.
//
// Variable-time failures panic with *Error. Wrap a command in
// Resources.Guard to turn those panics back into errors and release every
// scratch slot.
package bignat
