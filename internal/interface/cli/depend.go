package cli

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/cobra"
)

func newDependCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depend",
		Short: "Manage blocked-by dependencies",
	}

	cmd.AddCommand(newDependAddCmd(opts))
	cmd.AddCommand(newDependRemoveCmd(opts))
	cmd.AddCommand(newDependBlockingCmd(opts))
	cmd.AddCommand(newDependOrderCmd(opts))

	return cmd
}

func newDependAddCmd(opts *rootOptions) *cobra.Command {
	var relType, gap string

	cmd := &cobra.Command{
		Use:   "add <id> <target>",
		Short: "Make a task blocked by another task",
		Long: `Add a blocked-by edge from <id> to <target>. An edge that would close
a dependency cycle is rejected and nothing is written.`,
		Example: `  taskcore depend add Tasks/paint.md Tasks/buy-paint.md
  taskcore depend add Tasks/paint.md Tasks/primer.md --reltype finish-to-start --gap P1D`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				t, err := c.GetDependencyUseCase().AddDependency(ctx, dto.AddDependencyRequest{
					TaskID:   args[0],
					TargetID: args[1],
					RelType:  relType,
					Gap:      gap,
					Date:     opts.date,
				})
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now blocked by %s (blocked: %s)\n", t.ID, args[1], yesNo(t.Blocked))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&relType, "reltype", "", "Relation type (default FINISHTOSTART)")
	cmd.Flags().StringVar(&gap, "gap", "", "ISO-8601 duration between the tasks, e.g. P1D")

	return cmd
}

func newDependRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id> <target>",
		Aliases: []string{"remove"},
		Short:   "Remove a blocked-by edge",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				t, err := c.GetDependencyUseCase().RemoveDependency(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s no longer depends on %s\n", t.ID, args[1])
				return nil
			})
		},
	}
}

func newDependBlockingCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "blocking <id>",
		Short: "List the tasks blocked by a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				tasks, err := c.GetDependencyUseCase().GetBlocking(ctx, args[0], opts.date)
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
}

func newDependOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "List tasks with every blocker before the tasks it blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				res, err := c.GetDependencyUseCase().DependencyOrder(ctx)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), res)
				}
				for i, id := range res.Order {
					line := fmt.Sprintf("%3d. %s", i+1, id)
					if missing := res.Dangling[id]; len(missing) > 0 {
						line += fmt.Sprintf(" (missing: %v)", missing)
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
}
