package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every word in order",
		Long: `List every word in ascending order.

Each line is position, id and text separated by tabs. Positions are the
ones accepted by show, edit --at and delete --at.

Examples:
  wordlist list
  wordlist list --db ./words.db --format json`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	rows := opts.binding(st).Rows(cmd.Context())
	return opts.formatter(cmd).Success(RowsResult(rows))
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <position>",
		Short: "Show the word at a list position",
		Long: `Show the word at a list position.

Positions start at 0. Exit code 1 means nothing is at that position.

Examples:
  wordlist show 0
  wordlist show 11 --format json`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, arg string, cmd *cobra.Command) error {
	pos, err := parsePosition(arg)
	if err != nil {
		return err
	}

	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	f := opts.formatter(cmd)
	row, ok := opts.binding(st).Bind(cmd.Context(), pos)
	if !ok {
		return f.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("no word at position %d", pos))
	}
	return f.Success(RowResult(row))
}
