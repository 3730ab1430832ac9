package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/coinbase/cb-bignat-go/pkg/bignat"
)

// operands is one parsed command invocation: its inputs loaded into Nats of a
// common capacity on a freshly built Resources.
type operands struct {
	r       *bignat.Resources
	nats    []*bignat.Nat
	cleanup func()
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "operand is not a hex string")
	}
	if len(b) == 0 {
		b = []byte{0}
	}
	return b, nil
}

// load parses args and allocates every operand with the capacity of the
// longest of them.
func (a *app) load(args []string) (*operands, error) {
	raw := make([][]byte, len(args))
	width := 0
	for i, arg := range args {
		b, err := parseHex(arg)
		if err != nil {
			return nil, errors.WithMessagef(err, "argument %d", i+1)
		}
		raw[i] = b
		width = max(width, len(b))
	}
	r, cleanup, err := a.resources(width)
	if err != nil {
		return nil, err
	}
	ops := &operands{r: r, cleanup: cleanup}
	for _, b := range raw {
		n := r.NewNat(width)
		n.FromBytes(b)
		ops.nats = append(ops.nats, n)
	}
	return ops, nil
}

func (a *app) modularCmd(use, short string, nargs int, op func(m *bignat.Modular, n []*bignat.Nat) byte) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.load(args)
			if err != nil {
				return err
			}
			defer ops.cleanup()

			m := ops.r.Modular(a.strategy())
			if err := run(ops.r, cmd.Name(), func() byte { return op(m, ops.nats) }); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ops.nats[0])
			return nil
		},
	}
}

func (a *app) gcdCmd() *cobra.Command {
	return a.modularCmd("gcd <a> <b>", "Greatest common divisor of a and b.", 2,
		func(m *bignat.Modular, n []*bignat.Nat) byte { return m.Gcd(n[0], n[1]) })
}

func (a *app) modCmd() *cobra.Command {
	return a.modularCmd("mod <a> <m>", "Remainder of a divided by m.", 2,
		func(m *bignat.Modular, n []*bignat.Nat) byte { return m.Mod(n[0], n[1]) })
}

func (a *app) modExpCmd() *cobra.Command {
	return a.modularCmd("modexp <x> <e> <m>", "x to the power e modulo m.", 3,
		func(m *bignat.Modular, n []*bignat.Nat) byte { return m.ModExp(n[0], n[1], n[2]) })
}

func (a *app) modInvCmd() *cobra.Command {
	return a.modularCmd("modinv <x> <p>", "Inverse of x modulo the prime p.", 2,
		func(m *bignat.Modular, n []*bignat.Nat) byte { return m.ModInv(n[0], n[1]) })
}

func (a *app) modSqrtCmd() *cobra.Command {
	return a.modularCmd("modsqrt <x> <p>", "Square root of x modulo the odd prime p.", 2,
		func(m *bignat.Modular, n []*bignat.Nat) byte { return m.ModSqrt(n[0], n[1]) })
}

func (a *app) divCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "div <a> <b>",
		Short: "Quotient and remainder of a divided by b.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.load(args)
			if err != nil {
				return err
			}
			defer ops.cleanup()

			x, divisor := ops.nats[0], ops.nats[1]
			quotient := ops.r.NewNat(x.Size())
			s := a.strategy()
			if err := run(ops.r, "div", func() byte { return s.RemainderDivide(x, divisor, quotient) }); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, quotient)
			fmt.Fprintln(out, x)
			return nil
		},
	}
}

func (a *app) multCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mult <a> <b>",
		Short: "Full product of a and b.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.load(args)
			if err != nil {
				return err
			}
			defer ops.cleanup()

			x, y := ops.nats[0], ops.nats[1]
			prod := ops.r.NewNat(x.Size() + y.Size())
			m := ops.r.Modular(a.strategy())
			if err := run(ops.r, "mult", func() byte { return m.Mult(prod, x, y) }); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prod)
			return nil
		},
	}
}
