package cli

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/cobra"
)

func newNextCmd(opts *rootOptions) *cobra.Command {
	var after string

	cmd := &cobra.Command{
		Use:     "next <id>",
		Short:   "Show the next occurrence of a task",
		Example: `  taskcore next "Tasks/Water plants.md" --after 2026-01-07`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				from := after
				if from == "" {
					from = opts.date
				}
				res, err := c.GetTaskUseCase().NextOccurrence(ctx, args[0], from)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), res)
				}
				if !res.Found {
					fmt.Fprintf(cmd.OutOrStdout(), "No occurrence of %s after %s\n", res.TaskID, res.After)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Date)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "Search strictly after this day (default: --date)")

	return cmd
}
