package main

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phambaophuc/rich-menu-resizer/internal/config"
)

var (
	debug  bool
	logger = zap.NewNop()
	cfg    *config.Config

	flagSource      string
	flagDestination string
	flagWidth       int
	flagHeight      int
)

var rootCmd = &cobra.Command{
	Use:           "resizer",
	Short:         "Stretch the rich menu image to its target size",
	Long:          "resizer loads the source image, resizes it to the target size with Lanczos resampling and writes it to the destination.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		applyFlags(cmd, &cfg.Resize)
		return cfg.Resize.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd)
	},
}

func init() {
	cobra.EnablePrefixMatching = true

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "print error stacks")
	pf.StringVar(&flagSource, "source", "", "source image path (overrides SOURCE_PATH)")
	pf.StringVar(&flagDestination, "destination", "", "destination image path (overrides DESTINATION_PATH)")
	pf.IntVar(&flagWidth, "width", 0, "target width (overrides TARGET_WIDTH)")
	pf.IntVar(&flagHeight, "height", 0, "target height (overrides TARGET_HEIGHT)")

	rootCmd.AddCommand(serveCmd, workerCmd, publishJobCmd)
}

// applyFlags layers explicitly set flags over env and defaults.
func applyFlags(cmd *cobra.Command, rc *config.ResizeConfig) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		rc.SourcePath = flagSource
	}
	if flags.Changed("destination") {
		rc.DestinationPath = flagDestination
	}
	if flags.Changed("width") {
		rc.TargetWidth = flagWidth
	}
	if flags.Changed("height") {
		rc.TargetHeight = flagHeight
	}
}

func main() {
	err := rootCmd.Execute()
	defer logger.Sync()

	if err != nil {
		if debug {
			// Wrap keeps the stack of an *errors.Error raised deeper down.
			fmt.Fprintln(os.Stderr, errors.Wrap(err, 0).ErrorStack())
		}
		logger.Error("resizer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
