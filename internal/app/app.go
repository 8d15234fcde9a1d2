// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orfset-core/genome"
	"orfset-core/sample"
	"orfset/internal/cli"
	"orfset/internal/config"
	"orfset/internal/logging"
	"orfset/internal/output"
	"orfset/internal/sampler"
	"orfset/internal/writers"
)

// Version is reported by --version.
const Version = "0.3.0"

// Exit codes.
const (
	ExitOK          = 0
	ExitInput       = 1
	ExitUsage       = 2
	ExitOutput      = 3
	ExitInterrupted = 130
)

type runner struct {
	stdout, stderr io.Writer
	opts           cli.Options
	cfg            *config.Config
	log            *zap.Logger
}

func newRootCmd(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:   "orfset",
		Short: "Build start-codon and coding-ORF data sets from annotated genomes",
		Long: `orfset samples annotated bacterial genomes (GTO files) and writes labeled
training and testing rows for start-codon and coding-ORF models.

Each row is a name, the bases from p.-left to p.right around a candidate
codon, and a type column: 1 for a real start (or coding ORF), 0 otherwise.
p.0 is the first base of the candidate codon.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(r.opts.ConfigPath)
			if err != nil {
				return &cli.UsageError{Err: err}
			}
			r.cfg = cfg
			log, err := logging.New(r.stderr, cfg.Logging.Level, r.opts.Verbose)
			if err != nil {
				return &cli.UsageError{Err: err}
			}
			r.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if r.log != nil {
				_ = r.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return &cli.UsageError{Err: fmt.Errorf("unknown command %q", args[0])}
		},
	}
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cli.UsageError{Err: err}
	})
	cli.RegisterCommon(root.PersistentFlags(), &r.opts)

	strain := &cobra.Command{
		Use:   "strain [flags] <genomes>",
		Short: "Training set of true and false starts from randomly chosen pegs",
		Long: `Selects random pegs from each genome and finds the ORF containing each one.
Every start codon in frame with the peg is output; the peg's own start is
labeled 1 and the others 0. Output is balanced to the --fuzz ratio.`,
		Args: genomeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, cli.CmdStartTrain, args)
		},
	}
	cli.RegisterStartTrain(strain.Flags(), &r.opts)

	stest := &cobra.Command{
		Use:   "stest [flags] <genome>",
		Short: "Test set of every potential start in every peg's ORF",
		Long: `Outputs all potential starts in the ORFs of every peg, in genome order,
without sampling or balancing. Use strain to build the matching training set.`,
		Args: genomeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, cli.CmdStartTest, args)
		},
	}

	otrain := &cobra.Command{
		Use:   "otrain [flags] <genomes>",
		Short: "Training set of coding and non-coding ORFs from random regions",
		Long: `Selects random regions from each genome and, in all three frames, records
the neighborhood of each stop codon that closes an ORF, labeled 1 if the ORF
holds an annotated peg and 0 otherwise.`,
		Args: genomeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, cli.CmdOrfTrain, args)
		},
	}
	cli.RegisterOrfTrain(otrain.Flags(), &r.opts)

	root.AddCommand(strain, stest, otrain)
	return root
}

func genomeArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &cli.UsageError{Err: fmt.Errorf("%s takes exactly one genome directory or file, got %d arguments", cmd.Name(), len(args))}
	}
	return nil
}

func (r *runner) openSink() (io.WriteCloser, error) {
	if r.opts.Output == "" || r.opts.Output == "-" {
		return writers.NopCloser(r.stdout), nil
	}
	return os.Create(r.opts.Output)
}

func (r *runner) run(cmd *cobra.Command, name string, args []string) (err error) {
	r.opts.Input = args[0]
	cli.ApplyConfig(cmd.Flags(), name, &r.opts, r.cfg)
	if err := cli.Validate(name, r.opts); err != nil {
		return err
	}
	src, err := genome.Open(r.opts.Input)
	if err != nil {
		return err
	}

	sink, err := r.openSink()
	if err != nil {
		return &writers.SinkError{Err: err}
	}
	counts := &writers.Counters{}
	rng := sample.NewRand(r.opts.Seed)
	w, err := writers.OpenBalanced(sink, r.opts.Fuzz, rng, counts, r.log)
	if err != nil {
		_ = sink.Close()
		return &cli.UsageError{Err: err}
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	if err := w.WriteHeader(output.Header(r.opts.Left, r.opts.Right)); err != nil {
		return err
	}

	base := sampler.Base{
		Window: sampler.Window{Left: r.opts.Left, Right: r.opts.Right},
		Out:    w,
		Counts: counts,
		Log:    r.log,
	}
	var strat sampler.Strategy
	switch name {
	case cli.CmdStartTrain:
		strat = &sampler.PegStarts{Base: base, K: r.opts.Num, Rand: rng}
	case cli.CmdStartTest:
		strat = &sampler.AllPegStarts{Base: base}
	case cli.CmdOrfTrain:
		strat = &sampler.RegionCoding{Base: base, K: r.opts.Num, Width: r.opts.Width, Rand: rng}
	}
	r.log.Debug("Starting run.",
		zap.String("command", name),
		zap.Int("left", r.opts.Left), zap.Int("right", r.opts.Right),
		zap.Float64("fuzz", r.opts.Fuzz))
	return sampler.Run(cmd.Context(), src, strat, r.log)
}

// exitCode reports err on stderr and maps it to a process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	if writers.IsBrokenPipe(err) {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(stderr, "interrupted")
		return ExitInterrupted
	}
	_, _ = fmt.Fprintf(stderr, "error: %v\n", err)

	var ue *cli.UsageError
	if errors.As(err, &ue) {
		_, _ = fmt.Fprintln(stderr, "Run 'orfset --help' for usage.")
		return ExitUsage
	}
	var se *writers.SinkError
	if errors.As(err, &se) {
		return ExitOutput
	}
	return ExitInput
}

// RunContext executes one orfset command line and returns its exit status.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	r := &runner{stdout: stdout, stderr: stderr}
	root := newRootCmd(r)
	root.SetArgs(argv)
	return exitCode(root.ExecuteContext(ctx), stderr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
