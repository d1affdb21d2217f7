package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults mirror the policy of the legacy reaper being replaced.
const (
	defaultScaleDownAfterDays = 3
	defaultDeleteAfterDays    = 7
	defaultScaleGraceHours    = 48
	defaultDeleteGraceHours   = 336
)

var defaultExcludedNamespaces = []string{
	"kube-system",
	"kube-public",
	"kube-node-lease",
}

type Config struct {
	KubeConfig string
	KubeMaster string
	LogLevel   string
	LogFormat  string

	DryRun             bool
	TargetNamespace    string
	ExcludedNamespaces map[string]struct{}
	ScaleDownAfterDays int
	DeleteAfterDays    int
	DeleteEnabled      bool
	ScaleGraceHours    int
	DeleteGraceHours   int

	Schedule   string
	ScheduleTZ string

	HTTPPort    string
	MetricsPort string
}

func Load() (*Config, error) {
	cfg := &Config{
		KubeConfig:      getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback, ""),
		KubeMaster:      getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback, ""),
		LogLevel:        getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:       getEnvOrDefault(envKeyLogFormat, "json"),
		TargetNamespace: os.Getenv(envKeyTargetNamespace),
		Schedule:        os.Getenv(envKeySchedule),
		ScheduleTZ:      os.Getenv(envKeyScheduleTZ),
		HTTPPort:        getEnvOrDefault(envKeyHTTPPort, "8080"),
		MetricsPort:     getEnvOrDefault(envKeyMetricsPort, "9090"),
	}

	var err error

	if cfg.DryRun, err = getEnvBool(envKeyDryRun, true); err != nil {
		return nil, err
	}

	if cfg.DeleteEnabled, err = getEnvBool(envKeyDeleteEnabled, false); err != nil {
		return nil, err
	}

	if cfg.ScaleDownAfterDays, err = getEnvInt(envKeyScaleDownAfterDays, defaultScaleDownAfterDays); err != nil {
		return nil, err
	}

	if cfg.DeleteAfterDays, err = getEnvInt(envKeyDeleteAfterDays, defaultDeleteAfterDays); err != nil {
		return nil, err
	}

	if cfg.ScaleGraceHours, err = getEnvInt(envKeyScaleGraceHours, defaultScaleGraceHours); err != nil {
		return nil, err
	}

	if cfg.DeleteGraceHours, err = getEnvInt(envKeyDeleteGraceHours, defaultDeleteGraceHours); err != nil {
		return nil, err
	}

	cfg.ExcludedNamespaces = parseNamespaceSet(
		os.Getenv(envKeyExcludedNamespaces),
	)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ScaleDownAfterDays < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", envKeyScaleDownAfterDays, c.ScaleDownAfterDays)
	}

	if c.DeleteAfterDays <= c.ScaleDownAfterDays {
		return fmt.Errorf("%s (%d) must be greater than %s (%d)",
			envKeyDeleteAfterDays, c.DeleteAfterDays,
			envKeyScaleDownAfterDays, c.ScaleDownAfterDays,
		)
	}

	if c.ScaleGraceHours < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", envKeyScaleGraceHours, c.ScaleGraceHours)
	}

	if c.DeleteGraceHours <= c.ScaleGraceHours {
		return fmt.Errorf("%s (%d) must be greater than %s (%d)",
			envKeyDeleteGraceHours, c.DeleteGraceHours,
			envKeyScaleGraceHours, c.ScaleGraceHours,
		)
	}

	return nil
}

// parseNamespaceSet turns a comma-separated list into a set, always merging
// in the default exclusions. An excluded namespace can never be reconciled
// by accident through an empty env var.
func parseNamespaceSet(raw string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultExcludedNamespaces))

	for _, ns := range defaultExcludedNamespaces {
		set[ns] = struct{}{}
	}

	for _, ns := range strings.Split(raw, ",") {
		ns = strings.TrimSpace(ns)
		if ns != "" {
			set[ns] = struct{}{}
		}
	}

	return set
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvWithFallback(key, fallbackKey, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return getEnvOrDefault(fallbackKey, defaultValue)
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return value, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return value, nil
}
