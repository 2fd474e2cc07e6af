package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/frametree/internal/demo"
	"github.com/vango-dev/frametree/pkg/inspect"
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List registered components and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range inspect.Catalog(demo.Registry()) {
				fmt.Fprintf(tw, "%s\t(%s)\n", c.Name, c.GoType)
				for _, p := range c.Parameters {
					kind := p.Category
					if p.Capture {
						kind = "capture"
					}
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Name, p.Type, kind)
				}
			}
			return tw.Flush()
		},
	}
}
