package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	for _, key := range []string{"COMPETITORS_PORT", "COMPETITORS_NATS_URL", "COMPETITORS_DATABASE_URL"} {
		t.Setenv(key, "")
	}
	t.Setenv("COMPETITORS_LOG_LEVEL", "debug")

	path := writeFile(t, ".env", `
# local overrides
COMPETITORS_PORT=9090 # dev port
export COMPETITORS_NATS_URL="nats://localhost:4222"
COMPETITORS_DATABASE_URL='postgres://localhost/trade#main'
COMPETITORS_LOG_LEVEL=warn
not a pair
`)
	require.NoError(t, LoadEnv(path))

	assert.Equal(t, "9090", os.Getenv("COMPETITORS_PORT"))
	assert.Equal(t, "nats://localhost:4222", os.Getenv("COMPETITORS_NATS_URL"))
	assert.Equal(t, "postgres://localhost/trade#main", os.Getenv("COMPETITORS_DATABASE_URL"))
	assert.Equal(t, "debug", os.Getenv("COMPETITORS_LOG_LEVEL"))

	t.Chdir(t.TempDir())
	cfg, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
}

func TestLoadEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
}
