package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	At int // list position to delete instead of an id
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <id> | delete --at <position>",
		Short: "Delete a word",
		Long: `Delete a word, by id or by list position.

Words after it move up one position. Exit code 1 means no word matched.

Examples:
  wordlist delete 12
  wordlist delete --at 11`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.At, "at", -1, "list position of the word to delete")

	return cmd
}

func runDelete(opts *DeleteOptions, args []string, cmd *cobra.Command) error {
	byPosition := cmd.Flags().Changed("at")
	switch {
	case byPosition && len(args) != 0:
		return NewExitError(ExitCommandError, "delete takes <id> or --at <position>, not both")
	case !byPosition && len(args) != 1:
		return NewExitError(ExitCommandError, "delete takes <id> or --at <position>")
	case byPosition && opts.At < 0:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid position %d: must be a non-negative integer", opts.At))
	}

	var id int64
	if !byPosition {
		var err error
		if id, err = parseID(args[0]); err != nil {
			return err
		}
	}

	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	f := opts.formatter(cmd)

	if byPosition {
		b := opts.binding(st)
		row, ok := b.Bind(ctx, opts.At)
		if !ok {
			return f.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("no word at position %d", opts.At))
		}
		if !b.Remove(ctx, row) {
			return f.Fail(ExitFailure, CodeStore, fmt.Sprintf("failed to delete word %d", row.ID))
		}
		return f.Success(MutationResult{Action: "Deleted", ID: row.ID, Rows: 1})
	}

	rows := st.Delete(ctx, id)
	if rows == 0 {
		return f.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("no word with id %d", id))
	}
	return f.Success(MutationResult{Action: "Deleted", ID: id, Rows: rows})
}
