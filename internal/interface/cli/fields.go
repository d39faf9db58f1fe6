package cli

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/taskcore/internal/infrastructure/di"
	"github.com/spf13/cobra"
)

func newFieldsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Show the effective field mapping",
		Long:  "Show which frontmatter property holds each task field, with any mapping conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, c *di.Container) error {
				mappings := c.GetSettingsUseCase().FieldMappings()
				if opts.json {
					return printJSON(cmd.OutOrStdout(), mappings)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Settings: %s\n\n", c.GetSettings().Source)
				fmt.Fprintf(out, "%-20s %-24s %s\n", "FIELD", "PROPERTY", "NOTE")
				fmt.Fprintln(out, rule)
				for _, m := range mappings {
					note := ""
					switch {
					case m.Conflict != "":
						note = m.Conflict
					case m.Remapped:
						note = "remapped"
					}
					fmt.Fprintf(out, "%-20s %-24s %s\n", m.Field, m.Property, note)
				}
				return nil
			})
		},
	}
}
