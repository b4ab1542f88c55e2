package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
Env = "test"

[Database]
Host = "db"

[Reward]
MaxConcurrentTransfers = 16

[Redis]
LeaderboardTTL = "1m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "db", cfg.Database.Host)
	require.Equal(t, "3306", cfg.Database.Port)
	require.Equal(t, 16, cfg.Reward.MaxConcurrentTransfers)
	require.Equal(t, int32(8), cfg.Reward.DecimalPlaces)
	require.Equal(t, time.Minute, cfg.Redis.LeaderboardTTL)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
