package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	At int // list position to edit instead of an id
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id> <text> | edit --at <position> <text>",
		Short: "Change the text of a word",
		Long: `Change the text of a word, by id or by list position.

The word keeps its id and moves to the position its new text sorts to.
Exit code 1 means no word matched.

Examples:
  wordlist edit 3 "Recycler view"
  wordlist edit --at 0 Renamed`,
		Args:          usageArgs(cobra.RangeArgs(1, 2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.At, "at", -1, "list position of the word to edit")

	return cmd
}

func runEdit(opts *EditOptions, args []string, cmd *cobra.Command) error {
	byPosition := cmd.Flags().Changed("at")
	switch {
	case byPosition && len(args) != 1:
		return NewExitError(ExitCommandError, "edit --at takes exactly one argument: <text>")
	case !byPosition && len(args) != 2:
		return NewExitError(ExitCommandError, "edit takes <id> <text>, or --at <position> <text>")
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
	text := args[len(args)-1]

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
		if !b.Replace(ctx, row, text) {
			return f.Fail(ExitFailure, CodeStore, fmt.Sprintf("failed to update word %d", row.ID))
		}
		return f.Success(MutationResult{Action: "Updated", ID: row.ID, Rows: 1})
	}

	rows := st.Update(ctx, id, text)
	switch {
	case rows < 0:
		return f.Fail(ExitFailure, CodeStore, fmt.Sprintf("failed to update word %d", id))
	case rows == 0:
		return f.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("no word with id %d", id))
	}
	return f.Success(MutationResult{Action: "Updated", ID: id, Rows: rows})
}
