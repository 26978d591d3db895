package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/ir"
	"github.com/roach88/contacts/internal/state"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Identity int64
	Trace    bool
	Metrics  bool
}

// SendResult is the JSON payload of the send command.
type SendResult struct {
	Event         string         `json:"event"`
	Changed       bool           `json:"changed"`
	Notifications int            `json:"notifications"`
	State         ir.State       `json:"state"`
	Trace         []state.Record `json:"trace,omitempty"`
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send <event> [data]",
		Short: "Dispatch one event and print the resulting state",
		Long: `Dispatch one event against a fresh store and print the result.

Events:
  changeName  <name>          set the document name
  nameChange  <name>          rename the contact given by --identity
  emailChange <email>         change the email of --identity
  numChange   <phone>         change the phone number of --identity
  urlChange   <image-url>     change the image URL of --identity

Exit codes:
  0 - Event applied (changed or not)
  1 - Unrecognized event or unknown contact
  2 - Command error

Examples:
  contacts send changeName "Physicists"
  contacts send emailChange albert@example.com --identity 1 --format json`,
		Args:          cobra.RangeArgs(1, 2),
		ValidArgs:     state.EventNames,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data any
			if len(args) == 2 {
				data = args[1]
			}
			return runSend(opts, args[0], data, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Identity, "identity", 0, "target contact id")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include the dispatch record")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "write dispatch counters to stderr in Prometheus format")

	return cmd
}

func runSend(opts *SendOptions, event string, data any, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	trace := state.NewTraceRecorder()
	counters := state.NewMetricsRecorder()
	store, err := openStore(opts.RootOptions, cmd, state.WithRecorder(state.MultiRecorder{trace, counters}))
	if err != nil {
		formatter.Error(ErrCodeSeed, err.Error(), nil)
		return err
	}

	notifications := 0
	store.OnUpdate(func(ir.State) { notifications++ })

	err = store.Send(event, data, opts.Identity)
	if opts.Metrics {
		counters.WritePrometheus(formatter.GetErrWriter())
	}
	if err != nil {
		return formatter.StoreError(err)
	}

	result := SendResult{
		Event:         event,
		Changed:       notifications > 0,
		Notifications: notifications,
		State:         store.State(),
	}
	if opts.Trace {
		result.Trace = trace.Records()
	}

	return formatter.Success(result, func(w io.Writer) {
		if result.Changed {
			fmt.Fprintf(w, "%s: changed\n", event)
		} else {
			fmt.Fprintf(w, "%s: unchanged\n", event)
		}
		if opts.Trace {
			for _, rec := range result.Trace {
				fmt.Fprintf(w, "  seq=%d flow=%s id=%s\n", rec.Seq, rec.Flow, rec.ID)
			}
		}
		writeState(w, result.State)
	})
}
