// Package rsaengine provides bignat.Cipher implementations: a software
// engine that reproduces the behavior of secure-element RSA coprocessors,
// and (in the pkcs11 subpackage) an engine backed by a PKCS#11 token.
//
// The software engine is an exponentiation oracle built on math/big. Options
// switch on the quirks recorded in the platform capability table, so the
// hardware paths of the modular layer can be exercised without a device:
//
//	caps := platform.Lookup(platform.J3H145)
//	engine := rsaengine.ForCapabilities(caps, 64)
package rsaengine
