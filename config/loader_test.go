package config

import (
	"testing"
	"time"

	"github.com/slighter12/go-lib/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master":  map[string]any{"userName": "storefront"},
		},
		"auth": map[string]any{
			"accessTokenExpiry":      "15m",
			"sessionCleanupInterval": "1h",
		},
		"orders": map[string]any{
			"maxItems":       50,
			"isolationLevel": "read_committed",
		},
		"qrcode": map[string]any{"baseUrl": ""},
	}

	tests := map[string]string{
		"POSTGRES_SSLMODE":            "postgres.sslMode",
		"POSTGRES_MASTER_USERNAME":    "postgres.master.userName",
		"AUTH_SESSIONCLEANUPINTERVAL": "auth.sessionCleanupInterval",
		"ORDERS_ISOLATIONLEVEL":       "orders.isolationLevel",
		"QRCODE_BASEURL":              "qrcode.baseUrl",
		// Underscores always split segments, so unknown spellings stay lower case paths.
		"ORDERS_ISOLATION_LEVEL": "orders.isolation.level",
		"REPORTS_MAXLIMIT":       "reports.maxlimit",
	}

	for envKey, want := range tests {
		t.Run(envKey, func(t *testing.T) {
			assert.Equal(t, want, canonicalizeEnvKey(envKey, existing))
		})
	}
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-a")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5433")
	t.Setenv("POSTGRES_REPLICAS_0_USERNAME", "reader")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-b")
	// Replica 1 has no port, so scanning stops there.
	t.Setenv("POSTGRES_REPLICAS_2_HOST", "replica-c")
	t.Setenv("POSTGRES_REPLICAS_2_PORT", "5435")

	assert.Equal(t, []postgres.ConnectionConfig{
		{Host: "replica-a", Port: "5433", UserName: "reader"},
	}, buildReplicasFromEnv())
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	t.Setenv("AUTH_BCRYPTCOST", "4")
	t.Setenv("AUTH_ACCESSTOKENEXPIRY", "5m")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, time.Hour, cfg.Auth.SessionCleanupInterval)
	assert.NotNil(t, cfg.Postgres)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml not found")
}
