package cli

import (
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a word",
		Long: `Add a word and print its id.

Duplicates are allowed. Ids are never reused.

Examples:
  wordlist add Zebra
  wordlist add "Content provider" --format json`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, args[0], cmd)
		},
	}
}

func runAdd(opts *RootOptions, text string, cmd *cobra.Command) error {
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	f := opts.formatter(cmd)
	id, ok := opts.binding(st).Add(cmd.Context(), text)
	if !ok {
		return f.Fail(ExitFailure, CodeStore, "failed to insert word")
	}
	return f.Success(AddResult{ID: id, Text: text})
}
