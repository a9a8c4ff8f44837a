package cli

import (
	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop all words and restore the seed list",
		Long: `Drop the word table, recreate it and insert the seed list again.

All words are lost. Prints the number of words after seeding.

Examples:
  wordlist reset
  wordlist reset --config ./wordlist.yaml`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(rootOpts, cmd)
		},
	}
}

func runReset(opts *RootOptions, cmd *cobra.Command) error {
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	f := opts.formatter(cmd)
	if err := st.Reset(ctx); err != nil {
		return f.FailWith(ExitFailure, CodeStore, "failed to reset database", err)
	}
	return f.Success(CountResult{Count: st.Count(ctx)})
}
