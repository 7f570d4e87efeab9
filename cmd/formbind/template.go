package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/templates"
)

func newTemplateCmd(a *app) *cobra.Command {
	var (
		ff   formFlags
		list bool
	)
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the Reference Template resolved from --template or --openapi",
		Long: `Resolve a Reference Template and print it as JSON. With --openapi and
--list, print the operations whose request body can serve as a template.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if list {
				if ff.openapi == "" {
					return fmt.Errorf("--list requires --openapi")
				}
				raw, err := readSource(ctx, ff.openapi)
				if err != nil {
					return err
				}
				ops, err := templates.Operations(ctx, raw)
				if err != nil {
					return err
				}
				for _, op := range ops {
					fmt.Fprintf(cmd.OutOrStdout(), "%-32s %-6s %s\n", op.ID, op.Method, op.Path)
				}
				return nil
			}
			tpl, err := ff.loadTemplate(ctx)
			if err != nil {
				return err
			}
			a.logger.Debug().Int("leaves", len(tpl.Leaves())).Msg("resolved template")
			out, err := templates.Encode(tpl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	ff.register(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "list OpenAPI operations with a request body")
	return cmd
}
