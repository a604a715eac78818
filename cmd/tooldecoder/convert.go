package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tooldecoder/tooldecoder/internal/convert"
	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
	"github.com/tooldecoder/tooldecoder/pkg/tooldb"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		output      string
		rampAngle   float64
		rampRate    float64
		vendor      string
		toolSpecURL string
		tipLength   float64
	)

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a tool library to a MillMage tool database",
		Long: `Parses FILE and writes the compatible tools as a MillMage tool database.

The output defaults to FILE with its extension replaced by the configured
output extension (".tools"). Use -o - to write to stdout.

Flags override the [defaults] table of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			res, err := a.registry.Parse(cmd.Context(), input)
			if err != nil {
				return err
			}

			var o convert.Overrides
			flags := cmd.Flags()
			if flags.Changed("ramp-angle") {
				o.RampAngle = &rampAngle
			}
			if flags.Changed("ramp-rate") {
				o.RampRate = &rampRate
			}
			if flags.Changed("vendor") {
				o.Vendor = &vendor
			}
			if flags.Changed("tool-spec-url") {
				o.ToolSpecURL = &toolSpecURL
			}
			if flags.Changed("tip-length") {
				o.TipLength = &tipLength
			}

			doc, counts := convert.Convert(res.Tools, a.cfg.Settings().Apply(o))

			if output == "" {
				output = a.cfg.OutputPath(input)
			}
			if err := writeDocument(doc, output, a.cfg.Output.Indent, cmd.OutOrStdout()); err != nil {
				return err
			}

			a.logger.Info("converted tool library",
				zap.String("input", input),
				zap.String("output", output),
				zap.String("format", res.Format),
				zap.Int("total", counts.Total),
				zap.Int("converted", counts.Compatible),
				zap.Int("skipped", counts.Incompatible),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (- for stdout)")
	flags.Float64Var(&rampAngle, "ramp-angle", convert.DefaultRampAngle, "ramp angle in degrees")
	flags.Float64Var(&rampRate, "ramp-rate", 0, "ramp rate (default 0.8 x feed rate)")
	flags.StringVar(&vendor, "vendor", "", "vendor written to every tool")
	flags.StringVar(&toolSpecURL, "tool-spec-url", "", "tool spec URL written to every tool")
	flags.Float64Var(&tipLength, "tip-length", convert.DefaultTipLength, "tip length written to every tool")
	return cmd
}

func writeDocument(doc tooldb.Document, path, indent string, stdout io.Writer) error {
	if path == "-" {
		return doc.Encode(stdout, indent)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeOutputWriteFailed, "create "+path, apperrors.CategorySource)
	}
	if err := doc.Encode(f, indent); err != nil {
		f.Close()
		return apperrors.Wrap(err, apperrors.CodeOutputWriteFailed, "write "+path, apperrors.CategorySource)
	}
	if err := f.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeOutputWriteFailed, "close "+path, apperrors.CategorySource)
	}
	return nil
}
