package cli

import (
	"context"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var req dto.ListTasksRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "List tasks with their effective status on the evaluated day, most important first",
		Example: `  # Open tasks today
  taskcore list

  # Everything, including completed tasks and instances
  taskcore list --all

  # Tasks waiting on an unfinished blocker
  taskcore list --blocked --date 2026-01-07`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				req.Date = opts.date
				tasks, err := c.GetTaskUseCase().ListTasks(ctx, req)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), tasks)
				}
				printTaskTable(cmd.OutOrStdout(), tasks)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&req.IncludeCompleted, "all", false, "Include completed tasks")
	cmd.Flags().BoolVar(&req.OnlyBlocked, "blocked", false, "Only tasks that are blocked")
	cmd.Flags().StringVar(&req.Tag, "tag", "", "Only tasks carrying this tag")

	return cmd
}
