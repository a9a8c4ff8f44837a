package cli

import (
	"slices"

	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <substring>",
		Short: "Find words containing a substring",
		Long: `Find words containing a substring, one per line.

Matching ignores ASCII case. % and _ match literally.
An empty substring matches every word.

Examples:
  wordlist search android
  wordlist search "" --format json`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, args[0], cmd)
		},
	}
}

func runSearch(opts *RootOptions, substring string, cmd *cobra.Command) error {
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	texts := st.Search(cmd.Context(), substring)
	slices.Sort(texts) // store order is unspecified
	return opts.formatter(cmd).Success(TextsResult(texts))
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "count",
		Short:         "Print the number of words",
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(rootOpts, cmd)
		},
	}
}

func runCount(opts *RootOptions, cmd *cobra.Command) error {
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	return opts.formatter(cmd).Success(CountResult{Count: st.Count(cmd.Context())})
}
