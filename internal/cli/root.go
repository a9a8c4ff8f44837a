package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/wordlist/internal/config"
	"github.com/roach88/wordlist/internal/listing"
	"github.com/roach88/wordlist/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose       bool
	Format        string // "json" | "text"
	Database      string
	ConfigPath    string
	SchemaVersion int

	// Resolved before a command runs.
	Config *config.Config
	Logger *slog.Logger
	RunID  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the wordlist CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "wordlist - a sorted word store",
		Long: `Manage a list of words kept in a local SQLite database.

Words are shown in ascending order and addressed by list position.
Changing the schema version drops all words and restores the seed list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd.ErrOrStderr())
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default ./"+config.DefaultFile+" if present)")
	cmd.PersistentFlags().IntVar(&opts.SchemaVersion, "schema-version", 0, "declared schema version (overrides config)")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve validates global flags, loads the config and builds the logger.
// Flags override the config file, which overrides the defaults.
func (o *RootOptions) resolve(stderr io.Writer) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Resolve(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	cfg.Merge(&config.Config{
		Database:      o.Database,
		SchemaVersion: o.SchemaVersion,
	})
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	o.Config = cfg
	o.RunID = uuid.Must(uuid.NewV7()).String()
	o.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With("run_id", o.RunID)
	o.Logger.Debug("configuration resolved",
		"database", cfg.Database,
		"schema_version", cfg.SchemaVersion,
		"config", o.ConfigPath,
	)
	return nil
}

// openStore returns a store for the resolved database. Nothing is opened
// until the first operation. Callers close it.
func (o *RootOptions) openStore(cmd *cobra.Command) (*store.Store, error) {
	if o.Config == nil {
		if err := o.resolve(cmd.ErrOrStderr()); err != nil {
			return nil, err
		}
	}
	opts := append(o.Config.StoreOptions(), store.WithLogger(o.Logger))
	return store.New(o.Config.Database, opts...), nil
}

// binding wraps st in a Binding that logs list changes at debug.
func (o *RootOptions) binding(st *store.Store) *listing.Binding {
	return listing.New(st, listing.ObserverFuncs{
		OnRemoved: func(position int) { o.Logger.Debug("row removed", "position", position) },
		OnChanged: func(position int) { o.Logger.Debug("row changed", "position", position) },
		OnReset:   func() { o.Logger.Debug("rows changed") },
	})
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// usageArgs maps positional argument errors to ExitCommandError.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}
