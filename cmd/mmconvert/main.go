package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/provide-io/mmconvert/internal/config"
	"github.com/provide-io/mmconvert/internal/convert"
	"github.com/provide-io/mmconvert/pkg/logging"
)

const version = "0.4.0"

var errUsage = errors.New("expected an .ini registry or one or more .png scenes")

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mmconvert (<ini-file> | <png-file>...)",
		Short: "Convert MultipleMaids scenes between MultipleMaids.ini and PNG saves",
		Long: `Convert MultipleMaids scenes between MultipleMaids.ini and PNG saves.

Given an .ini file, every scene slot is written as a PNG save under
"<output>/scene" (ambient slots under "<output>/kankyo"). Given PNG saves,
a new MultipleMaids.ini is written to "<output>".

Environment:
  MMCONV_CONFIG     TOML settings file
  MMCONV_OUT_DIR    output directory (default "./MultipleMaids Converter")
  MMCONV_LOG_LEVEL  trace, debug, info, warn, error
  MMCONV_JSON_LOG   set to 1 for JSON logs`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConvert,
	}
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("mmconvert %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(0)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Conversion failed:", err)
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger := logging.NewLogger("mmconvert", cfg.LogLevel, cfg.JSONLog, cmd.ErrOrStderr())

	mode := convert.DetectMode(args, cfg.ContainerExt)
	if mode == convert.ModeUsage {
		_ = cmd.Usage()
		return errUsage
	}

	conv := convert.New(cfg, logger)

	var report *convert.Report
	switch mode {
	case convert.ModeRegistry:
		if len(args) > 1 {
			logger.Warn("⚠️ Only the first argument is converted in registry mode", "ignored", len(args)-1)
		}
		report, err = conv.RegistryToContainers(args[0])
	case convert.ModeContainers:
		logger.Info("📸 Found saves to convert", "count", len(args))
		report, err = conv.ContainersToRegistry(args)
	}

	if report != nil && len(report.Results) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
	}
	if err != nil {
		return err
	}

	logger.Info("🎉 Conversion successful", "mode", mode, "output", cfg.OutputDir)
	return nil
}
