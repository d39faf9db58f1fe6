package cli

import (
	"context"

	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show one task",
		Long:    "Show the effective status, recurring instance, blockers and blocked tasks of one task",
		Example: `  taskcore show "Tasks/Water plants.md" --date 2026-01-07`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				t, err := c.GetTaskUseCase().GetTask(ctx, args[0], opts.date)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), t)
				}
				printTask(cmd.OutOrStdout(), t)
				return nil
			})
		},
	}
}
