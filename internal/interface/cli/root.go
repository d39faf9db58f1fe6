package cli

import (
	"context"

	"github.com/YoshitsuguKoike/taskcore/internal/buildinfo"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	vault    string
	config   string
	logLevel string
	date     string
	json     bool

	fs afero.Fs // nil means the OS filesystem
}

// NewRoot creates the taskcore command tree
func NewRoot() *cobra.Command {
	return newRoot(&rootOptions{})
}

func newRoot(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskcore",
		Short: "Recurring tasks and dependencies in a Markdown vault",
		Long: `taskcore reads tasks stored as Markdown notes with YAML frontmatter,
evaluates recurring instances and blocked-by dependencies, and writes
changes back to the notes.`,
		Version:      buildinfo.GetVersion(),
		SilenceUsage: true,
		RunE:         func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.vault, "vault", ".", "Vault root directory")
	flags.StringVar(&opts.config, "config", "", "Settings file (default: taskcore.yaml in the vault)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from settings)")
	flags.StringVar(&opts.date, "date", "", "Day to evaluate, YYYY-MM-DD (default: today in the configured timezone)")
	flags.BoolVar(&opts.json, "json", false, "Print results as JSON")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newToggleCmd(opts))
	cmd.AddCommand(newNextCmd(opts))
	cmd.AddCommand(newCycleCmd(opts))
	cmd.AddCommand(newDependCmd(opts))
	cmd.AddCommand(newFieldsCmd(opts))
	return cmd
}

// run builds the container for one command, executes fn and prints the
// warnings collected on the way, also when fn fails
func run(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, c *di.Container) error) error {
	stderr := cmd.ErrOrStderr()
	warnings := diag.NewCollector()
	defer func() { printWarnings(stderr, warnings.Warnings()) }()

	InitializeLoggers(levelOr(opts.logLevel, "warn"), stderr)

	container, err := di.NewContainer(di.Config{
		VaultDir:   opts.vault,
		ConfigPath: opts.config,
		Fs:         opts.fs,
		Warnings:   warnings,
	})
	if err != nil {
		return err
	}
	if opts.logLevel == "" {
		InitializeLoggers(container.GetSettings().LogLevel, stderr)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, container)
}

func levelOr(level, fallback string) string {
	if level == "" {
		return fallback
	}
	return level
}
