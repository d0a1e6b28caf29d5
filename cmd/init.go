package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const starterConfigTOML = `# ShieldScan configuration
# See the project README for the full option reference.

[policy]
# Minimum severity to fail the scan (info, low, medium, high, critical).
fail_on = "high"

# Rule IDs to ignore entirely.
# ignore_rules = ["SHIELD-008"]

# Per-rule severity overrides.
# [policy.overrides]
# "SHIELD-012" = "info"

[scan]
# Skip test files and files under test/, tests/, __tests__/, __pycache__/.
ignore_tests = true
`

const defaultConfigPath = ".shieldscan.toml"

// newInitCmd creates the `init` command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter .shieldscan.toml config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(defaultConfigPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", defaultConfigPath)
			}

			if err := os.WriteFile(defaultConfigPath, []byte(starterConfigTOML), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", defaultConfigPath, err)
			}

			fmt.Printf("Created %s\n", defaultConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
