package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoadFromFilesLayering(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "config", "app.json")
	envPath := filepath.Join(dir, ".env")

	writeFile(t, jsonPath, `{"app_port": "9000", "db_driver": "postgres", "catalog_cache_ttl": "30s"}`)
	writeFile(t, envPath, "APP_PORT=9100\nPAYMENTS_WEBHOOK_SECRET=\"whsec\"\n")
	t.Setenv("APP_ENV", "production")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9100", get("APP_PORT", ""))
	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "production", get("APP_ENV", ""))
	assert.Equal(t, "whsec", get("PAYMENTS_WEBHOOK_SECRET", ""))
	assert.Equal(t, 30*time.Second, duration("CATALOG_CACHE_TTL", time.Minute))
}

func TestLoadFromFilesMissingIsFine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}

func TestPaymentsSkipsSignature(t *testing.T) {
	cases := []struct {
		name string
		p    Payments
		want bool
	}{
		{"no secret no flag", Payments{}, false},
		{"flag without secret", Payments{AllowUnsignedWebhooks: true}, true},
		{"secret wins over flag", Payments{WebhookSecret: "s", AllowUnsignedWebhooks: true}, false},
		{"secret only", Payments{WebhookSecret: "s"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.SkipsSignature())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitList(" a:9092, ,b:9092 "))
	assert.Nil(t, splitList(""))
}
