// Package cli implements the names command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/matsen/names/internal/config"
	"github.com/matsen/names/internal/logging"
	"github.com/matsen/names/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Options holds the parsed flags for one invocation.
type Options struct {
	Input      string
	Update     string
	Delete     string
	Output     bool
	Initialize bool
	TestError  bool

	DBPath  string
	JSON    bool
	Verbose bool
}

// actionFlags are mutually exclusive.
var actionFlags = []string{"input", "update", "delete", "output"}

// NewRootCommand creates the root command for the names CLI.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "names [flags]",
		Short: "Manage a list of unique names",
		Long: `names keeps a list of unique names in a local SQLite database.

Exactly one of --input, --update, --delete or --output may be given.
--initialize wipes the database after asking for confirmation and ignores
any other action.

The database path is taken from --db, then $NAMES_DB (a .env file in the
working directory is honored), then db_path in ~/.config/names/config.yml,
and defaults to greetings.db in the working directory.

Exit status is 0 unless: 1 when the database cannot be opened, 2 for
invalid flags or arguments, 3 when the global config cannot be read.`,
		Example: `  names -i Alice
  names -u Alice Bob
  names -d Bob
  names -o
  names -init`,
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Input, "input", "i", "", "add `NAME` to the database")
	flags.StringVarP(&opts.Update, "update", "u", "", "rename OLD to NEW (usage: -u OLD NEW)")
	flags.StringVarP(&opts.Delete, "delete", "d", "", "delete `NAME` from the database")
	flags.BoolVarP(&opts.Output, "output", "o", false, "print all stored names")
	flags.BoolVar(&opts.Initialize, "initialize", false, "wipe the database (asks for confirmation); also accepted as -init")
	flags.BoolVar(&opts.TestError, "test-error", false, "insert a record and force an error to exercise rollback")
	flags.StringVar(&opts.DBPath, "db", "", "database `PATH` (overrides $NAMES_DB and config)")
	flags.BoolVar(&opts.JSON, "json", false, "print --output as JSON")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.MarkFlagsMutuallyExclusive(actionFlags...)
	_ = flags.MarkHidden("test-error")

	cmd.Version = Version
	return cmd
}

// validateArgs allows a single positional argument, the NEW name, and
// only together with --update.
func validateArgs(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("update") {
		if len(args) != 1 {
			return fmt.Errorf("--update takes two names: -u OLD NEW")
		}
		return nil
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}
	return nil
}

// actionSpecified reports whether any of the mutually exclusive action
// flags was given.
func actionSpecified(cmd *cobra.Command) bool {
	for _, name := range actionFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func run(cmd *cobra.Command, opts *Options, args []string) error {
	config.LoadDotEnv()

	logger := logging.New(cmd.ErrOrStderr(), opts.Verbose)
	defer func() { _ = logger.Sync() }()

	dbPath, err := config.ResolveDBPath(opts.DBPath)
	if err != nil {
		return &ConfigError{Err: err}
	}

	out := cmd.OutOrStdout()
	store := storage.New(dbPath, storage.WithLogger(logger), storage.WithNotices(out))
	d := &dispatcher{
		names:  storage.NewNames(store),
		out:    out,
		prompt: newPrompter(cmd.InOrStdin(), out),
		logger: logger,
		json:   opts.JSON,
	}

	ctx := cmd.Context()

	if opts.Initialize {
		return d.reset(ctx)
	}

	if !actionSpecified(cmd) {
		return cmd.Help()
	}

	if opts.TestError {
		return d.testError(ctx)
	}

	if err := d.names.Initialize(ctx); err != nil {
		return d.report(err)
	}

	switch {
	case cmd.Flags().Changed("input"):
		return d.add(ctx, opts.Input)
	case cmd.Flags().Changed("update"):
		return d.rename(ctx, opts.Update, args[0])
	case cmd.Flags().Changed("delete"):
		return d.remove(ctx, opts.Delete)
	case cmd.Flags().Changed("output"):
		return d.list(ctx)
	}
	return errors.New("no action selected")
}
