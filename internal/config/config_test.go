package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/idle-reaper/internal/config"
)

type loadCase struct {
	name    string
	giveEnv map[string]string
	wantErr bool
	check   func(t *testing.T, cfg *config.Config)
}

func TestLoad(t *testing.T) {
	tests := []loadCase{
		{
			name:    "defaults",
			giveEnv: map[string]string{},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				require.True(t, cfg.DryRun)
				require.False(t, cfg.DeleteEnabled)
				require.Equal(t, 3, cfg.ScaleDownAfterDays)
				require.Equal(t, 7, cfg.DeleteAfterDays)
				require.Equal(t, 48, cfg.ScaleGraceHours)
				require.Equal(t, 336, cfg.DeleteGraceHours)
				require.Equal(t, "", cfg.TargetNamespace)
				require.Equal(t, "info", cfg.LogLevel)
				require.Equal(t, "json", cfg.LogFormat)
				require.Contains(t, cfg.ExcludedNamespaces, "kube-system")
			},
		},
		{
			name: "explicit thresholds",
			giveEnv: map[string]string{
				"IDLEREAPER_DRY_RUN":               "false",
				"IDLEREAPER_DELETE_ENABLED":        "true",
				"IDLEREAPER_SCALE_DOWN_AFTER_DAYS": "5",
				"IDLEREAPER_DELETE_AFTER_DAYS":     "14",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				require.False(t, cfg.DryRun)
				require.True(t, cfg.DeleteEnabled)
				require.Equal(t, 5, cfg.ScaleDownAfterDays)
				require.Equal(t, 14, cfg.DeleteAfterDays)
			},
		},
		{
			name: "excluded namespaces merge with defaults",
			giveEnv: map[string]string{
				"IDLEREAPER_EXCLUDED_NAMESPACES": "infra, monitoring ,",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				require.Contains(t, cfg.ExcludedNamespaces, "infra")
				require.Contains(t, cfg.ExcludedNamespaces, "monitoring")
				require.Contains(t, cfg.ExcludedNamespaces, "kube-system")
				require.NotContains(t, cfg.ExcludedNamespaces, "")
			},
		},
		{
			name: "kubeconfig fallback",
			giveEnv: map[string]string{
				"KUBECONFIG": "/home/user/.kube/config",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				require.Equal(t, "/home/user/.kube/config", cfg.KubeConfig)
			},
		},
		{
			name: "prefixed kubeconfig wins over fallback",
			giveEnv: map[string]string{
				"IDLEREAPER_KUBECONFIG": "/etc/reaper/kubeconfig",
				"KUBECONFIG":            "/home/user/.kube/config",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				require.Equal(t, "/etc/reaper/kubeconfig", cfg.KubeConfig)
			},
		},
		{
			name: "delete threshold must exceed scale-down threshold",
			giveEnv: map[string]string{
				"IDLEREAPER_SCALE_DOWN_AFTER_DAYS": "7",
				"IDLEREAPER_DELETE_AFTER_DAYS":     "7",
			},
			wantErr: true,
		},
		{
			name: "grace window must be ordered",
			giveEnv: map[string]string{
				"IDLEREAPER_SCALE_GRACE_HOURS":  "336",
				"IDLEREAPER_DELETE_GRACE_HOURS": "48",
			},
			wantErr: true,
		},
		{
			name: "malformed bool is an error",
			giveEnv: map[string]string{
				"IDLEREAPER_DRY_RUN": "maybe",
			},
			wantErr: true,
		},
		{
			name: "malformed int is an error",
			giveEnv: map[string]string{
				"IDLEREAPER_DELETE_AFTER_DAYS": "week",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.giveEnv {
				t.Setenv(key, value)
			}

			cfg, err := config.Load()

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
