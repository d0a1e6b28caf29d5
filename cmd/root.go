package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shieldscan/shieldscan/internal/config"
	"github.com/shieldscan/shieldscan/internal/observability"
	"github.com/shieldscan/shieldscan/internal/shielderr"
)

var cfgFile string

var loadedConfig *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "shieldscan",
	Short:   "Security scanner for AI agent extensions",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = ".shieldscan.toml"
		}

		cfg, err := config.Load(path)
		if err != nil {
			observability.InitializeLogger(observability.LoggerConfig{Level: "info", Format: "console", ServiceName: "shieldscan"})
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		loadedConfig = cfg

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Info("starting shieldscan", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if errors.Is(err, errFindingsAtThreshold) {
		os.Exit(1)
	}

	if logger := observability.GetLogger(); logger != nil {
		logger.Error("command failed", zap.Error(err))
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	if exitCode := shielderr.ExitCode(err); exitCode != 0 {
		os.Exit(exitCode)
	}
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default .shieldscan.toml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newListRulesCmd())
	rootCmd.AddCommand(newInitCmd())
}
