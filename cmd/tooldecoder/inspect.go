package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tooldecoder/tooldecoder/internal/report"
	"github.com/tooldecoder/tooldecoder/internal/stats"
	"github.com/tooldecoder/tooldecoder/internal/tool"
)

// inspectOutput is the --json shape: the parsed tools before conversion.
type inspectOutput struct {
	Format       string       `json:"format"`
	OriginalName string       `json:"originalName"`
	Tools        []tool.Tool  `json:"tools"`
	Stats        stats.Counts `json:"stats"`
}

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "List the tools in a library and their compatibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			res, err := a.registry.Parse(cmd.Context(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				tools := res.Tools
				if tools == nil {
					tools = []tool.Tool{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", a.cfg.Output.Indent)
				return enc.Encode(inspectOutput{
					Format:       res.Format,
					OriginalName: filepath.Base(path),
					Tools:        tools,
					Stats:        stats.Count(res.Tools),
				})
			}

			summary := stats.Summarize(res.Format, res.Tools)
			_, err = fmt.Fprint(out, report.Tools(filepath.Base(path), res.Tools, summary, report.DefaultStyles()))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parsed tools as JSON")
	return cmd
}
