package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/ir"
	"github.com/roach88/contacts/internal/state"
)

// QueryResult is the JSON payload of the query command.
type QueryResult struct {
	Query  string `json:"query"`
	Result any    `json:"result"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <name> [data]",
		Short: "Run a read-only query against the initial state",
		Long: `Run a query against a fresh store.

Queries:
  getName               the document name
  getContact <id>       the contact with the given id

Examples:
  contacts query getName
  contacts query getContact 1 --format json`,
		Args:          cobra.RangeArgs(1, 2),
		ValidArgs:     state.QueryNames,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data any
			if len(args) == 2 {
				data = args[1]
			}
			return runQuery(rootOpts, args[0], data, cmd)
		},
	}
}

func runQuery(opts *RootOptions, name string, data any, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	store, err := openStore(opts, cmd)
	if err != nil {
		formatter.Error(ErrCodeSeed, err.Error(), nil)
		return err
	}

	result, err := store.Query(name, data)
	if err != nil {
		return formatter.StoreError(err)
	}

	return formatter.Success(QueryResult{Query: name, Result: result}, func(w io.Writer) {
		switch v := result.(type) {
		case ir.Contact:
			writeContact(w, v, "")
		case string:
			if v == "" {
				fmt.Fprintln(w, "(unnamed)")
				return
			}
			fmt.Fprintln(w, v)
		default:
			fmt.Fprintln(w, v)
		}
	})
}
