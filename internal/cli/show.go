package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/ir"
)

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	State  ir.State `json:"state"`
	Digest string   `json:"digest"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the initial state document",
		Long: `Print the state a store starts from, with its content digest.

Examples:
  contacts show
  contacts show --seed team.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, cmd)
		},
	}
}

func runShow(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := loadInitialState(opts)
	if err != nil {
		formatter.Error(ErrCodeSeed, err.Error(), nil)
		return err
	}

	digest, err := ir.StateDigest(s)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash state", err)
	}

	return formatter.Success(ShowResult{State: s, Digest: digest}, func(w io.Writer) {
		writeState(w, s)
		fmt.Fprintf(w, "Digest: %s\n", digest)
	})
}
