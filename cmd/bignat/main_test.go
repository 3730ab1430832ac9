package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coinbase/cb-bignat-go/pkg/bignat"
	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestArithmeticCommands(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want []string
	}{
		{"gcd", []string{"gcd", "0a", "02"}, []string{"02"}},
		{"mod", []string{"mod", "012c", "012b"}, []string{"0001"}},
		{"div", []string{"div", "2bdc545d6b4b87", "7048860ddf4c"}, []string{"00000000000064", "000000000011d7"}},
		{"mult", []string{"mult", "128d4ca6", "128d4ca6"}, []string{"01582cc4ddcefba4"}},
		{"modexp", []string{"modexp", "03", "05", "ffffffff00000001"}, []string{"00000000000000f3"}},
		{"modinv", []string{"modinv", "03", "07"}, []string{"05"}},
		{"modsqrt", []string{"modsqrt", "02", "07"}, []string{"04"}},
	}
	for _, ct := range []bool{false, true} {
		for _, tc := range cases {
			args := tc.args
			if ct {
				args = append([]string{"--ct"}, args...)
			}
			t.Run(strings.Join(args, " "), func(t *testing.T) {
				out, err := execute(t, args...)
				require.NoError(t, err)
				require.Equal(t, tc.want, lines(out))
			})
		}
	}
}

func TestMultOnHardwareTarget(t *testing.T) {
	for _, target := range []string{"j3h145", "simulator", "gd60"} {
		out, err := execute(t, "--target", target, "--ct", "mult", "128d4ca6", "128d4ca6")
		require.NoError(t, err, target)
		require.Equal(t, []string{"01582cc4ddcefba4"}, lines(out), target)
	}
}

func TestModExpOnHardwareTarget(t *testing.T) {
	for _, target := range []string{"j2e145g", "j3r180", "secora", "gd70"} {
		out, err := execute(t, "--target", target, "--block-size", "64", "modexp", "03", "05", "ffffffff00000001")
		require.NoError(t, err, target)
		require.Equal(t, []string{"00000000000000f3"}, lines(out), target)
	}
}

func TestModSqrtOfNonResidue(t *testing.T) {
	// 3 is not a square modulo 7.
	for _, args := range [][]string{
		{"modsqrt", "03", "07"},
		{"--ct", "modsqrt", "03", "07"},
	} {
		_, err := execute(t, args...)
		require.ErrorContains(t, err, "modsqrt failed")
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := execute(t, "mod", "05", "00")
	require.ErrorIs(t, err, bignat.ErrDivisionByZero)

	_, err = execute(t, "--ct", "mod", "05", "00")
	require.ErrorContains(t, err, "error mask raised")
}

func TestRejectsBadInput(t *testing.T) {
	_, err := execute(t, "gcd", "zz", "02")
	require.ErrorContains(t, err, "argument 1")

	_, err = execute(t, "gcd", "02")
	require.Error(t, err)

	_, err = execute(t, "--target", "nowhere", "gcd", "02", "04")
	require.ErrorContains(t, err, "unknown target")

	_, err = execute(t, "--engine", "tpm", "gcd", "02", "04")
	require.ErrorContains(t, err, "unknown engine")
}

func TestConfigurationSources(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv("BIGNAT_TARGET", "nowhere")
		_, err := execute(t, "gcd", "02", "04")
		require.ErrorContains(t, err, "unknown target")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bignat.yaml")
		require.NoError(t, os.WriteFile(path, []byte("target: nowhere\n"), 0o600))
		_, err := execute(t, "--config", path, "gcd", "02", "04")
		require.ErrorContains(t, err, "unknown target")
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("BIGNAT_TARGET", "nowhere")
		out, err := execute(t, "--target", "software", "gcd", "06", "04")
		require.NoError(t, err)
		require.Equal(t, []string{"02"}, lines(out))
	})
}

func TestTargets(t *testing.T) {
	out, err := execute(t, "targets")
	require.NoError(t, err)
	require.Contains(t, out, "TARGET")
	require.Contains(t, out, "j3h145")
	require.Contains(t, out, "mult-trick")
	require.Len(t, lines(out), 9)
}

func TestSelftest(t *testing.T) {
	out, err := execute(t, "selftest", "--rounds", "1", "--block-size", "72")
	require.NoError(t, err, out)
	for _, l := range lines(out) {
		require.True(t, strings.HasSuffix(l, " ok"), l)
	}
}

func TestFlagSpellings(t *testing.T) {
	out, err := execute(t, "--max_size", "16", "--block_size", "64", "gcd", "06", "04")
	require.NoError(t, err)
	require.Equal(t, []string{"02"}, lines(out))
}

func TestSelftestStopsOnCancel(t *testing.T) {
	a := &app{v: viper.New(), logger: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.selftest(ctx, platform.Simulator, 72, 4, 1)
	require.ErrorIs(t, err, context.Canceled)
}
