package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tooldecoder/tooldecoder/internal/config"
	"github.com/tooldecoder/tooldecoder/internal/logging"
	"github.com/tooldecoder/tooldecoder/internal/parser"
)

// app is the state shared by every subcommand for one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	registry *parser.Registry
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tooldecoder",
		Short: "Convert CAM tool libraries to MillMage tool databases",
		Long: `tooldecoder reads tool libraries written by other CAM applications and
writes them as a MillMage tool database.

Supported inputs:
  .vtdb   Vectric Aspire 12 tool database
  .tool   Vectric Aspire 9 tool library
  .tdb    CarveCo tool database
  .tl     ESTLcam tool library

Tools without a MillMage equivalent are reported but not converted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInspectCmd(a),
		newConvertCmd(a),
		newFormatsCmd(a),
	)
	return root
}

// execute runs the command tree and flushes the logger whether or not the
// command failed.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func (a *app) init() error {
	config.LoadDotEnv()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Logging, a.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}
	a.registry = parser.Default(a.logger)

	a.logger.Debug("config loaded", zap.String("path", a.configPath))
	return nil
}
