package bignat_test

import (
	"errors"
	"fmt"

	"github.com/coinbase/cb-bignat-go/pkg/bignat"
	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
	"github.com/coinbase/cb-bignat-go/pkg/rsaengine"
)

func ExampleModular_ModExp() {
	r, err := bignat.New(bignat.Config{MaxNatSize: 8})
	if err != nil {
		panic(err)
	}

	p := r.NewNat(8)
	p.FromBytes([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x01})
	x := r.NewNat(8)
	x.FromBytes([]byte{0x03})
	e := r.NewNat(1)
	e.FromBytes([]byte{0x05})

	if r.Modular(bignat.ConstantTime).ModExp(x, e, p) != 0 {
		panic("modexp failed")
	}
	fmt.Println(x)
	// Output: 00000000000000f3
}

func ExampleResources_Guard() {
	r, err := bignat.New(bignat.Config{MaxNatSize: 8})
	if err != nil {
		panic(err)
	}
	x := r.NewNat(2)
	x.FromBytes([]byte{0x12, 0x34})
	zero := r.NewNat(2)

	err = r.Guard(func() { x.Mod(zero) })
	fmt.Println(errors.Is(err, bignat.ErrDivisionByZero))

	// The constant-time path reports the same failure as a mask.
	fmt.Printf("%#02x\n", x.CTMod(zero))
	// Output:
	// true
	// 0xff
}

func ExampleModular_Mult() {
	caps := platform.Lookup(platform.J3H145)
	r, err := bignat.New(bignat.Config{
		Target:       platform.J3H145,
		MaxNatSize:   16,
		SquareEngine: rsaengine.ForCapabilities(caps, 64),
	})
	if err != nil {
		panic(err)
	}
	a := r.NewNat(4)
	a.FromBytes([]byte{0x12, 0x8D, 0x4C, 0xA6})
	prod := r.NewNat(8)

	if r.Modular(bignat.VariableTime).Mult(prod, a, a) != 0 {
		panic("mult failed")
	}
	fmt.Println(prod)
	// Output: 01582cc4ddcefba4
}
