package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coinbase/cb-bignat-go/pkg/bignat"
	"github.com/coinbase/cb-bignat-go/pkg/bignat/platform"
	"github.com/coinbase/cb-bignat-go/pkg/logging"
	"github.com/coinbase/cb-bignat-go/pkg/rsaengine"
	"github.com/coinbase/cb-bignat-go/pkg/rsaengine/pkcs11"
)

const envPrefix = "BIGNAT"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "bignat",
		Short:         "Fixed-capacity big-integer arithmetic.",
		Long:          `Runs big-integer and modular operations on hex operands with the variable-time or constant-time strategy, optionally through a software model of a card RSA engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.SetGlobalNormalizationFunc(normalizeFlag)
	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file.")
	flags.String("target", platform.Software.String(), "Platform target whose capability table is used.")
	flags.Bool("ct", false, "Use the constant-time strategy.")
	flags.Int("max-size", 0, "Longest operand in bytes; 0 sizes the pool from the operands.")
	flags.Int("block-size", 256, "RSA engine block size in bytes.")
	flags.String("engine", "software", "RSA engine backing the target: software or pkcs11.")
	flags.BoolP("verbose", "v", false, "Log engine lifecycle events to stderr.")
	// BindPFlags only fails on a nil flag set.
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault("pkcs11.library", "")
	a.v.SetDefault("pkcs11.label", "")
	a.v.SetDefault("pkcs11.pin", "")

	root.AddCommand(
		a.gcdCmd(),
		a.modCmd(),
		a.divCmd(),
		a.multCmd(),
		a.modExpCmd(),
		a.modInvCmd(),
		a.modSqrtCmd(),
		a.targetsCmd(),
		a.selftestCmd(),
	)
	return root
}

// normalizeFlag accepts max_size and max.size as spellings of max-size, the
// way the keys appear in configuration files and environment variables.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.NewReplacer("_", "-", ".", "-").Replace(name))
}

func (a *app) setup() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read configuration file %s", path)
		}
	}

	level := zapcore.WarnLevel
	if a.v.GetBool("verbose") {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	a.logger = logger
	return nil
}

func (a *app) strategy() bignat.Arithmetic {
	if a.v.GetBool("ct") {
		return bignat.ConstantTime
	}
	return bignat.VariableTime
}

func (a *app) target() (platform.Target, error) {
	t, err := platform.ParseTarget(a.v.GetString("target"))
	if err != nil {
		return platform.Software, errors.WithStack(err)
	}
	return t, nil
}

// resources builds a Resources for the configured target sized for operands
// of up to width bytes. The returned func releases the engines.
func (a *app) resources(width int) (*bignat.Resources, func(), error) {
	target, err := a.target()
	if err != nil {
		return nil, nil, err
	}
	caps := platform.Lookup(target)
	cfg := bignat.Config{
		Target:     target,
		MaxNatSize: max(width, a.v.GetInt("max-size")),
		Logger:     logging.NewZap(a.logger),
	}
	closers := []func(){}
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	block := a.v.GetInt("block-size")
	switch kind := a.v.GetString("engine"); kind {
	case "software":
		if caps.RSAModExp || caps.RSASquare {
			cfg.Engine = rsaengine.ForCapabilities(caps, block)
		}
		if caps.RSAMultTrick {
			cfg.SquareEngine = rsaengine.ForCapabilities(caps, block)
		}
	case "pkcs11":
		opts := pkcs11.Opts{
			Library:   a.v.GetString("pkcs11.library"),
			Label:     a.v.GetString("pkcs11.label"),
			Pin:       a.v.GetString("pkcs11.pin"),
			BlockSize: block,
		}
		if caps.RSAModExp || caps.RSASquare {
			e, err := pkcs11.New(opts)
			if err != nil {
				return nil, nil, errors.Wrap(err, "failed to open exponentiation engine")
			}
			closers = append(closers, func() { _ = e.Close() })
			cfg.Engine = e
		}
		if caps.RSAMultTrick {
			e, err := pkcs11.New(opts)
			if err != nil {
				cleanup()
				return nil, nil, errors.Wrap(err, "failed to open square engine")
			}
			closers = append(closers, func() { _ = e.Close() })
			cfg.SquareEngine = e
		}
	default:
		return nil, nil, errors.Errorf("unknown engine %q", kind)
	}

	r, err := bignat.New(cfg)
	if err != nil {
		cleanup()
		return nil, nil, errors.Wrapf(err, "failed to set up target %s", target)
	}
	return r, cleanup, nil
}

// run executes fn inside the fatal-error boundary of r and turns a raised
// error mask into an error.
func run(r *bignat.Resources, op string, fn func() byte) error {
	var mask byte
	if err := r.Guard(func() { mask = fn() }); err != nil {
		return errors.Wrapf(err, "%s failed", op)
	}
	if mask != 0 {
		return errors.Errorf("%s failed: error mask raised", op)
	}
	return nil
}
