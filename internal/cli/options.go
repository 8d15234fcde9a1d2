// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"orfset/internal/config"
	"orfset/internal/sampler"
	"orfset/internal/writers"
)

// Subcommands
const (
	CmdStartTrain = "strain"
	CmdStartTest  = "stest"
	CmdOrfTrain   = "otrain"
)

// MaxWindow bounds the neighborhood span: left + right bases around a
// candidate codon.
const MaxWindow = 100000

// Options holds all CLI flags and the positional genome input.
type Options struct {
	// Input: a genome directory or a single GTO file
	Input string

	// Neighborhood window
	Left  int
	Right int

	// Sampling
	Num   int
	Width int
	Fuzz  float64
	Seed  uint64

	// Output / misc
	Output     string
	Verbose    bool
	ConfigPath string
}

// UsageError marks a configuration problem found before any work starts.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usage(format string, a ...any) error {
	return &UsageError{Err: fmt.Errorf(format, a...)}
}

// RegisterCommon wires the flags every subcommand shares.
func RegisterCommon(fs *pflag.FlagSet, o *Options) {
	def := config.DefaultConfig()
	fs.IntVar(&o.Left, "left", def.Left, "number of positions to output to the left of the candidate base pair")
	fs.IntVar(&o.Right, "right", def.Right, "number of positions to output to the right of the candidate base pair")
	fs.Uint64Var(&o.Seed, "seed", def.Seed, "random seed (0 = seed from the clock)")
	fs.StringVarP(&o.Output, "output", "o", "-", "output file ('-' = stdout)")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "show more detailed status messages")
	fs.StringVar(&o.ConfigPath, "config", "", "YAML file of defaults")
}

// RegisterStartTrain wires the strain flags.
func RegisterStartTrain(fs *pflag.FlagSet, o *Options) {
	def := config.DefaultConfig().StartTrain
	fs.IntVarP(&o.Num, "num", "n", def.Num, "number of pegs to process per genome")
	fs.IntVar(&o.Num, "pegs", def.Num, "alias of --num")
	fs.Float64Var(&o.Fuzz, "fuzz", def.Fuzz, "allowed majority:minority label ratio (0 = no balancing)")
}

// RegisterOrfTrain wires the otrain flags.
func RegisterOrfTrain(fs *pflag.FlagSet, o *Options) {
	def := config.DefaultConfig().OrfTrain
	fs.IntVarP(&o.Num, "num", "n", def.Num, "number of regions to scan in each genome")
	fs.IntVarP(&o.Width, "width", "w", def.Width, "width of each region to scan")
	fs.Float64Var(&o.Fuzz, "fuzz", def.Fuzz, "allowed majority:minority label ratio (0 = no balancing)")
}

// ApplyConfig copies config values into every option whose flag was not
// given on the command line.
func ApplyConfig(fs *pflag.FlagSet, cmd string, o *Options, cfg *config.Config) {
	unset := func(names ...string) bool {
		for _, n := range names {
			if f := fs.Lookup(n); f != nil && f.Changed {
				return false
			}
		}
		return true
	}
	if unset("left") {
		o.Left = cfg.Left
	}
	if unset("right") {
		o.Right = cfg.Right
	}
	if unset("seed") {
		o.Seed = cfg.Seed
	}
	switch cmd {
	case CmdStartTrain:
		if unset("num", "pegs") {
			o.Num = cfg.StartTrain.Num
		}
		if unset("fuzz") {
			o.Fuzz = cfg.StartTrain.Fuzz
		}
	case CmdOrfTrain:
		if unset("num") {
			o.Num = cfg.OrfTrain.Num
		}
		if unset("width") {
			o.Width = cfg.OrfTrain.Width
		}
		if unset("fuzz") {
			o.Fuzz = cfg.OrfTrain.Fuzz
		}
	case CmdStartTest:
		o.Fuzz = 0
	}
}

// Validate applies the invariants checked before any genome is read.
func Validate(cmd string, o Options) error {
	if o.Input == "" {
		return &UsageError{Err: errors.New("a genome directory or file is required")}
	}
	if o.Left < 0 {
		return usage("--left must be ≥ 0 (got %d)", o.Left)
	}
	if o.Right < 0 {
		return usage("--right must be ≥ 0 (got %d)", o.Right)
	}
	if o.Left > MaxWindow || o.Right > MaxWindow || o.Left+o.Right > MaxWindow {
		return usage("--left plus --right must be at most %d (got %d and %d)", MaxWindow, o.Left, o.Right)
	}
	switch cmd {
	case CmdStartTrain:
		if o.Num < 1 {
			return usage("number of pegs per genome must be greater than 0 (got %d)", o.Num)
		}
	case CmdOrfTrain:
		if o.Num < 1 {
			return usage("number of regions must be greater than 0 (got %d)", o.Num)
		}
		if o.Width < sampler.MinRegionWidth {
			return usage("region width must be at least %d (got %d)", sampler.MinRegionWidth, o.Width)
		}
	case CmdStartTest:
	default:
		return usage("unknown command %q", cmd)
	}
	if err := writers.ValidateFuzz(o.Fuzz); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}
