package main

import (
	"context"
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coinbase/cb-bignat-go/pkg/bignat"
	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
	"github.com/coinbase/cb-bignat-go/pkg/logging"
	"github.com/coinbase/cb-bignat-go/pkg/rsaengine"
)

func (a *app) targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the supported targets and their RSA engine capabilities.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TARGET\tCAPABILITIES")
			for _, t := range platform.Targets() {
				fmt.Fprintf(w, "%s\t%s\n", t, describe(platform.Lookup(t)))
			}
			return w.Flush()
		},
	}
}

func describe(c platform.Capabilities) string {
	var names []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{c.RSAModExp, "modexp"},
		{c.RSASquare, "square"},
		{c.RSAMultTrick, "mult-trick"},
		{c.RSAPrependZeros, "prepend-zeros"},
		{c.RSAResizeBase, "resize-base"},
		{c.RSAAppendModulus, "append-modulus"},
		{c.RSAKeyRefresh, "key-refresh"},
	} {
		if f.on {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// selftestPrimes are the moduli every target is exercised with.
var selftestPrimes = []string{
	"ffffffff00000001",
	"fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
}

func (a *app) selftestCmd() *cobra.Command {
	var (
		rounds int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check every target against math/big with software RSA engines.",
		Long:  `Builds one engine per target, each on its own goroutine, and compares random modular operations under both strategies with math/big.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := platform.Targets()
			block := a.v.GetInt("block-size")
			results := make([]error, len(targets))

			g, ctx := errgroup.WithContext(cmd.Context())
			for i, t := range targets {
				g.Go(func() error {
					results[i] = a.selftest(ctx, t, block, rounds, seed)
					return results[i]
				})
			}
			// The first failure cancels ctx; the rest of the report shows
			// which targets stopped early.
			_ = g.Wait()

			out := cmd.OutOrStdout()
			failed := 0
			for i, t := range targets {
				if results[i] != nil {
					failed++
					fmt.Fprintf(out, "%-10s FAIL %v\n", t, results[i])
					continue
				}
				fmt.Fprintf(out, "%-10s ok\n", t)
			}
			if failed > 0 {
				return errors.Errorf("%d of %d targets failed", failed, len(targets))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 16, "Random cases per prime and strategy.")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed of the random operands.")
	return cmd
}

func (a *app) selftest(ctx context.Context, target platform.Target, block, rounds int, seed uint64) error {
	caps := platform.Lookup(target)
	cfg := bignat.Config{
		Target:     target,
		MaxNatSize: 32,
		Logger:     logging.NewZap(a.logger),
	}
	if caps.RSAModExp || caps.RSASquare {
		cfg.Engine = rsaengine.ForCapabilities(caps, block)
	}
	if caps.RSAMultTrick {
		cfg.SquareEngine = rsaengine.ForCapabilities(caps, block)
	}
	r, err := bignat.New(cfg)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(seed, uint64(target)))
	for _, hexP := range selftestPrimes {
		pBytes, err := parseHex(hexP)
		if err != nil {
			return err
		}
		for _, s := range []bignat.Arithmetic{bignat.VariableTime, bignat.ConstantTime} {
			for range rounds {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := selftestCase(r, s, pBytes, rng); err != nil {
					return errors.WithMessagef(err, "%s, %d-byte prime", s.Name(), len(pBytes))
				}
			}
		}
	}
	return nil
}

func selftestCase(r *bignat.Resources, s bignat.Arithmetic, pBytes []byte, rng *rand.Rand) error {
	size := len(pBytes)
	p := r.NewNat(size)
	p.FromBytes(pBytes)
	bp := new(big.Int).SetBytes(pBytes)

	xb := make([]byte, size)
	yb := make([]byte, size)
	for i := range xb {
		xb[i] = byte(rng.Uint32())
		yb[i] = byte(rng.Uint32())
	}
	bx := new(big.Int).Mod(new(big.Int).SetBytes(xb), bp)
	by := new(big.Int).SetBytes(yb)

	m := r.Modular(s)
	check := func(op string, fn func(x *bignat.Nat) byte, want *big.Int) error {
		x := r.NewNat(size)
		x.FromBytes(xb)
		if err := run(r, op, func() byte { return fn(x) }); err != nil {
			return err
		}
		if got := new(big.Int).SetBytes(x.Bytes()); got.Cmp(want) != 0 {
			return errors.Errorf("%s mismatch", op)
		}
		return nil
	}

	y := r.NewNat(size)
	y.FromBytes(yb)
	if err := check("ModMult", func(x *bignat.Nat) byte { return m.ModMult(x, y, p) },
		new(big.Int).Mod(new(big.Int).Mul(bx, by), bp)); err != nil {
		return err
	}
	if err := check("ModExp", func(x *bignat.Nat) byte { return m.ModExp(x, y, p) },
		new(big.Int).Exp(bx, by, bp)); err != nil {
		return err
	}
	if bx.Sign() != 0 {
		if err := check("ModInv", func(x *bignat.Nat) byte { return m.ModInv(x, p) },
			new(big.Int).ModInverse(bx, bp)); err != nil {
			return err
		}
	}

	// Square x first so the root exists, then check root^2 == x^2.
	sq := new(big.Int).Mod(new(big.Int).Mul(bx, bx), bp)
	root := r.NewNat(size)
	root.FromBytes(sq.FillBytes(make([]byte, size)))
	if err := run(r, "ModSqrt", func() byte { return m.ModSqrt(root, p) }); err != nil {
		return err
	}
	br := new(big.Int).SetBytes(root.Bytes())
	if new(big.Int).Exp(br, big.NewInt(2), bp).Cmp(sq) != 0 {
		return errors.New("ModSqrt mismatch")
	}
	return nil
}
