// Package config loads the TOML-shaped scan configuration (default file
// name .shieldscan.toml) with viper and validates it with
// go-playground/validator, matching the ambient configuration-loading
// style the rest of this codebase uses for its own settings files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/observability"
)

// PolicyConfig is the `[policy]` section: the ignore list, per-rule
// severity overrides, and the fail threshold.
type PolicyConfig struct {
	FailOn      string            `mapstructure:"fail_on" validate:"omitempty,oneof=info low medium high critical"`
	IgnoreRules []string          `mapstructure:"ignore_rules"`
	Overrides   map[string]string `mapstructure:"overrides"`
}

// ScanConfig is the `[scan]` section.
type ScanConfig struct {
	IgnoreTests bool `mapstructure:"ignore_tests"`
}

// Config is the full decoded configuration file.
type Config struct {
	Policy PolicyConfig               `mapstructure:"policy"`
	Scan   ScanConfig                 `mapstructure:"scan"`
	Logger observability.LoggerConfig `mapstructure:"logger"`
}

// SetDefaults seeds v with the configuration's default values before a
// file is merged in, so a missing .shieldscan.toml still yields a usable
// configuration.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("policy.fail_on", "high")
	v.SetDefault("policy.ignore_rules", []string{})
	v.SetDefault("policy.overrides", map[string]string{})
	v.SetDefault("scan.ignore_tests", true)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "shieldscan")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

// Load reads configPath (a TOML file) into a Config, merging over the
// defaults. A missing file is not an error — SetDefaults already
// populated a usable configuration — but a present, malformed file is.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("SHIELDSCAN")
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", configPath, err)
	}
	// viper lowercases map keys; rule ids are upper-case (SHIELD-009).
	if len(cfg.Policy.Overrides) > 0 {
		overrides := make(map[string]string, len(cfg.Policy.Overrides))
		for ruleID, severity := range cfg.Policy.Overrides {
			overrides[strings.ToUpper(ruleID)] = severity
		}
		cfg.Policy.Overrides = overrides
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate runs struct-tag validation and the rule-id-shaped checks a
// tag alone can't express (each override key must look like a rule id).
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	for ruleID, severity := range c.Policy.Overrides {
		if !strings.HasPrefix(ruleID, "SHIELD-") {
			return fmt.Errorf("policy.overrides key %q is not a recognized rule id", ruleID)
		}
		if !isValidSeverity(severity) {
			return fmt.Errorf("policy.overrides[%s] = %q is not a recognized severity", ruleID, severity)
		}
	}
	return nil
}

func isValidSeverity(s string) bool {
	switch schemas.Severity(s) {
	case schemas.SeverityCritical, schemas.SeverityHigh, schemas.SeverityMedium, schemas.SeverityLow, schemas.SeverityInfo:
		return true
	default:
		return false
	}
}

// Severity returns the configured fail threshold as a schemas.Severity,
// defaulting to High if unset or unrecognized.
func (p PolicyConfig) Severity() schemas.Severity {
	sev := schemas.Severity(p.FailOn)
	switch sev {
	case schemas.SeverityCritical, schemas.SeverityHigh, schemas.SeverityMedium, schemas.SeverityLow, schemas.SeverityInfo:
		return sev
	default:
		return schemas.SeverityHigh
	}
}

// SeverityOverrides converts the string-keyed map read from TOML into
// the typed map the policy package expects.
func (p PolicyConfig) SeverityOverrides() map[string]schemas.Severity {
	out := make(map[string]schemas.Severity, len(p.Overrides))
	for ruleID, sev := range p.Overrides {
		out[ruleID] = schemas.Severity(sev)
	}
	return out
}
