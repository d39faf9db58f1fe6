package cli

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/cobra"
)

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> [date]",
		Short: "Toggle completion of a recurring instance",
		Long: `Mark the instance of a recurring task that contains date complete, or
reopen it when it already is. The date defaults to --date.`,
		Example: `  taskcore toggle "Tasks/Water plants.md" 2026-01-07`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.ToggleInstanceRequest{TaskID: args[0], Date: opts.date}
			if len(args) == 2 {
				req.Date = args[1]
			}
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				t, err := c.GetTaskUseCase().ToggleInstance(ctx, req)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), t)
				}
				state := "reopened"
				if t.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: instance %s %s\n", t.ID, t.InstanceKey, state)
				return nil
			})
		},
	}
}
