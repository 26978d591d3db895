package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/ir"
	"github.com/roach88/contacts/internal/seed"
	"github.com/roach88/contacts/internal/state"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Seed    string // optional seed file; empty means seed.Default()
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the contacts CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Contacts state store",
		Long: `Inspect and drive the in-memory contacts state store.

Every invocation starts from a fresh document: the built-in default, or the
file given with --seed. Nothing is written back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Seed, "seed", "", "seed file (.yaml, .json or .cue)")

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSendCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// newFormatter builds the formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a debug logger on stderr in verbose mode, otherwise a
// logger that discards everything.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	if !opts.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// loadInitialState returns the document a command starts from.
func loadInitialState(opts *RootOptions) (ir.State, error) {
	if opts.Seed == "" {
		return seed.Default(), nil
	}
	s, err := seed.Load(opts.Seed)
	if err != nil {
		return ir.State{}, WrapExitError(ExitCommandError, "failed to load seed", err)
	}
	return s, nil
}

// openStore creates a store from the command's seed.
func openStore(opts *RootOptions, cmd *cobra.Command, storeOpts ...state.Option) (*state.Store, error) {
	initial, err := loadInitialState(opts)
	if err != nil {
		return nil, err
	}
	base := []state.Option{
		state.WithState(initial),
		state.WithLogger(newLogger(opts, cmd)),
	}
	return state.New(append(base, storeOpts...)...), nil
}
