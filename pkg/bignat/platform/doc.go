// Package platform describes the secure-element targets the engine runs on
// and the capability table each of them carries.
//
// A Capabilities value is selected once, at startup, from a Target and is not
// modified afterwards. The modular arithmetic layer consults it to decide
// whether the RSA cipher engine may be driven as an exponentiation oracle and
// which padding conventions the engine expects.
package platform
