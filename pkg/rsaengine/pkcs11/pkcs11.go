// Package pkcs11 drives the RSA mechanism of a PKCS#11 token as a
// bignat.Cipher. Raw RSA (CKM_RSA_X_509) with a session public key gives
// in^e mod n for any modulus and exponent the token accepts.
package pkcs11

import (
	"os"

	"github.com/miekg/pkcs11"
	"github.com/pkg/errors"
)

// Opts selects the token.
type Opts struct {
	Library   string
	Label     string
	Pin       string
	BlockSize int
}

// Engine is an RSA cipher engine on a PKCS#11 token. It keeps one session
// and at most one session key object.
type Engine struct {
	ctx       *pkcs11.Ctx
	session   pkcs11.SessionHandle
	key       pkcs11.ObjectHandle
	hasKey    bool
	blockSize int
	finalize  bool
}

// New opens a session on the token with the configured label and logs in.
func New(opts Opts) (*Engine, error) {
	if opts.Library == "" {
		return nil, errors.New("pkcs11: library path not provided")
	}
	if opts.BlockSize <= 0 {
		return nil, errors.Errorf("pkcs11: invalid block size %d", opts.BlockSize)
	}

	ctx := pkcs11.New(opts.Library)
	if ctx == nil {
		return nil, errors.Errorf("pkcs11: instantiation failed for %s", opts.Library)
	}
	// Another user of the library in this process may have initialized it
	// already; only an instance initialized here is finalized.
	initialized := true
	if err := ctx.Initialize(); err != nil {
		if err != pkcs11.Error(pkcs11.CKR_CRYPTOKI_ALREADY_INITIALIZED) {
			ctx.Destroy()
			return nil, errors.Wrap(err, "pkcs11: Initialize failed")
		}
		initialized = false
	}
	release := func() {
		if initialized {
			ctx.Finalize()
		}
		ctx.Destroy()
	}

	slots, err := ctx.GetSlotList(true)
	if err != nil {
		release()
		return nil, errors.Wrap(err, "pkcs11: get slot list")
	}
	for _, s := range slots {
		info, err := ctx.GetTokenInfo(s)
		if err != nil || info.Label != opts.Label {
			continue
		}
		session, err := ctx.OpenSession(s, pkcs11.CKF_SERIAL_SESSION|pkcs11.CKF_RW_SESSION)
		if err != nil {
			release()
			return nil, errors.Wrap(err, "pkcs11: OpenSession failed")
		}
		err = ctx.Login(session, pkcs11.CKU_USER, opts.Pin)
		if err != nil && err != pkcs11.Error(pkcs11.CKR_USER_ALREADY_LOGGED_IN) {
			ctx.CloseSession(session)
			release()
			return nil, errors.Wrap(err, "pkcs11: Login failed")
		}
		return &Engine{ctx: ctx, session: session, blockSize: opts.BlockSize, finalize: initialized}, nil
	}
	release()
	return nil, errors.Errorf("pkcs11: could not find token with label %s", opts.Label)
}

// BlockSize returns the modulus length in bytes.
func (e *Engine) BlockSize() int {
	return e.blockSize
}

// Init replaces the session key with a public key (modulus, exponent).
func (e *Engine) Init(modulus, exponent []byte) error {
	if len(modulus) != e.blockSize {
		return errors.Errorf("pkcs11: modulus is %d bytes, block is %d", len(modulus), e.blockSize)
	}
	if err := e.destroyKey(); err != nil {
		return err
	}
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PUBLIC_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_KEY_TYPE, pkcs11.CKK_RSA),
		pkcs11.NewAttribute(pkcs11.CKA_TOKEN, false),
		pkcs11.NewAttribute(pkcs11.CKA_ENCRYPT, true),
		pkcs11.NewAttribute(pkcs11.CKA_MODULUS, modulus),
		pkcs11.NewAttribute(pkcs11.CKA_PUBLIC_EXPONENT, exponent),
	}
	key, err := e.ctx.CreateObject(e.session, template)
	if err != nil {
		return errors.Wrap(err, "pkcs11: CreateObject failed")
	}
	e.key = key
	e.hasKey = true
	return nil
}

// Process runs raw RSA on in[inOff:inOff+inLen]. Tokens return the result
// at full modulus length.
func (e *Engine) Process(in []byte, inOff, inLen int, out []byte, outOff int) (int, error) {
	if !e.hasKey {
		return 0, errors.New("pkcs11: no key loaded")
	}
	mech := []*pkcs11.Mechanism{pkcs11.NewMechanism(pkcs11.CKM_RSA_X_509, nil)}
	if err := e.ctx.EncryptInit(e.session, mech, e.key); err != nil {
		return 0, errors.Wrap(err, "pkcs11: EncryptInit failed")
	}
	res, err := e.ctx.Encrypt(e.session, in[inOff:inOff+inLen])
	if err != nil {
		return 0, errors.Wrap(err, "pkcs11: Encrypt failed")
	}
	if len(out)-outOff < len(res) {
		return 0, errors.Errorf("pkcs11: output holds %d of %d bytes", len(out)-outOff, len(res))
	}
	return copy(out[outOff:], res), nil
}

// Close destroys the session key, logs out and releases the library.
func (e *Engine) Close() error {
	err := e.destroyKey()
	e.ctx.Logout(e.session)
	e.ctx.CloseSession(e.session)
	if e.finalize {
		e.ctx.Finalize()
	}
	e.ctx.Destroy()
	return err
}

func (e *Engine) destroyKey() error {
	if !e.hasKey {
		return nil
	}
	e.hasKey = false
	if err := e.ctx.DestroyObject(e.session, e.key); err != nil {
		return errors.Wrap(err, "pkcs11: DestroyObject failed")
	}
	return nil
}

// FindLibrary looks for a PKCS#11 library the way the test environment is
// usually set up: PKCS11_LIB, PKCS11_PIN and PKCS11_LABEL, or SoftHSM in a
// familiar location with its default test token.
func FindLibrary() (lib, pin, label string) {
	lib = os.Getenv("PKCS11_LIB")
	if lib != "" {
		return lib, os.Getenv("PKCS11_PIN"), os.Getenv("PKCS11_LABEL")
	}
	pin = "98765432"
	label = "ForBignat"
	possibilities := []string{
		"/usr/lib/softhsm/libsofthsm2.so",                  // Debian
		"/usr/lib/x86_64-linux-gnu/softhsm/libsofthsm2.so", // Ubuntu
		"/usr/local/lib/softhsm/libsofthsm2.so",            // source build
		"/opt/homebrew/lib/softhsm/libsofthsm2.so",         // macOS
	}
	for _, path := range possibilities {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			return path, pin, label
		}
	}
	return "", pin, label
}
