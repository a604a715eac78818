package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tooldecoder/tooldecoder/internal/report"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported tool library formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := report.NewTable("Supported formats", "Extension", "Format", "Description")
			for _, p := range a.registry.All() {
				t.AddRow(false, p.Extension(), p.Name(), p.Description())
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), t.View(report.DefaultStyles()))
			return err
		},
	}
}
