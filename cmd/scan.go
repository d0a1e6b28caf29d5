package cmd

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/observability"
	"github.com/shieldscan/shieldscan/internal/policy"
	"github.com/shieldscan/shieldscan/internal/reporting"
	"github.com/shieldscan/shieldscan/internal/scan"
)

// errFindingsAtThreshold signals a clean scan that nonetheless failed
// its policy verdict, which Execute maps to exit code 1 — distinct from
// a scan-core error (exit code 2, via shielderr.ExitCode).
var errFindingsAtThreshold = errors.New("scan found findings at or above the fail threshold")

var recognizedSeverities = map[string]schemas.Severity{
	"info":     schemas.SeverityInfo,
	"low":      schemas.SeverityLow,
	"medium":   schemas.SeverityMedium,
	"high":     schemas.SeverityHigh,
	"critical": schemas.SeverityCritical,
}

// newScanCmd creates and configures the `scan` command.
func newScanCmd() *cobra.Command {
	var (
		format    string
		failOnStr string
		output    string
	)

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan an agent extension for security issues",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			logger := observability.GetLogger()
			cfg := loadedConfig

			failOn := cfg.Policy.Severity()
			if failOnStr != "" {
				sev, ok := recognizedSeverities[failOnStr]
				if !ok {
					logger.Warn("unknown --fail-on value, using config default", zap.String("value", failOnStr))
				} else {
					failOn = sev
				}
			}

			pol := policy.New(cfg.Policy.IgnoreRules, cfg.Policy.SeverityOverrides(), failOn)
			opts := scan.Options{IgnoreTests: cfg.Scan.IgnoreTests, Policy: pol}

			scanID := uuid.New().String()
			logger.Info("starting scan", zap.String("scan_id", scanID), zap.String("root", root))

			result, err := scan.Scan(root, opts, scanID, time.Now())
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}

			reporter, err := reporting.New(format, output)
			if err != nil {
				return err
			}
			if err := reporter.Write(result.Envelope()); err != nil {
				return err
			}
			if err := reporter.Close(); err != nil {
				return err
			}

			logger.Info("scan complete",
				zap.String("scan_id", scanID),
				zap.Bool("pass", result.Verdict.Pass),
				zap.String("highest_severity", string(result.Verdict.HighestSeverityObserved)),
				zap.Int("finding_count", len(result.ProjectedFindings)),
			)

			if !result.Verdict.Pass {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return errFindingsAtThreshold
			}
			return nil
		},
	}

	scanCmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, structured, code-scanning, html)")
	scanCmd.Flags().StringVar(&failOnStr, "fail-on", "", "minimum severity to fail the scan (info, low, medium, high, critical)")
	scanCmd.Flags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")

	return scanCmd
}
