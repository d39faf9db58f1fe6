package cli

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/cobra"
)

func newCycleCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Move a task to the next status or priority",
	}

	cmd.AddCommand(newCycleSubCmd(opts, "status", "Move a task to the next status in the catalog",
		func(ctx context.Context, c *di.Container, req dto.CycleRequest) (*dto.TaskDTO, error) {
			return c.GetTaskUseCase().CycleStatus(ctx, req)
		},
		func(t *dto.TaskDTO) string { return t.Status },
	))
	cmd.AddCommand(newCycleSubCmd(opts, "priority", "Move a task to the next priority in the catalog",
		func(ctx context.Context, c *di.Container, req dto.CycleRequest) (*dto.TaskDTO, error) {
			return c.GetTaskUseCase().CyclePriority(ctx, req)
		},
		func(t *dto.TaskDTO) string { return t.Priority },
	))

	return cmd
}

func newCycleSubCmd(
	opts *rootOptions,
	name, short string,
	cycle func(context.Context, *di.Container, dto.CycleRequest) (*dto.TaskDTO, error),
	value func(*dto.TaskDTO) string,
) *cobra.Command {
	var backward bool

	cmd := &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				t, err := cycle(ctx, c, dto.CycleRequest{TaskID: args[0], Date: opts.date, Backward: backward})
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", t.ID, name, orDash(value(t)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&backward, "backward", false, "Move to the previous value instead")

	return cmd
}
