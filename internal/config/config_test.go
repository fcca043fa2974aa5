package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"KUESIONER_DATA", "KUESIONER_SHEET", "KUESIONER_DB_PATH", "KUESIONER_MIGRATIONS_DIR",
		"KUESIONER_ADDR", "KUESIONER_JWT_SECRET", "KUESIONER_ADMIN_PASSWORD_HASH",
		"KUESIONER_LOG_LEVEL", "KUESIONER_QUESTIONS", "KUESIONER_TOKEN_TTL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "kuesioner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data: survey.csv
sheet: Jawaban
questions: [Q1, Q2]
db_path: /tmp/history.db
jwt_secret: s3cret
admin_password_hash: $2a$10$abcdefghijklmnopqrstuv
token_ttl: 2h
`), 0o644))
	t.Setenv("KUESIONER_DATA", "override.xlsx")
	t.Setenv("KUESIONER_QUESTIONS", "Q1,Q2,Q3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override.xlsx", cfg.DataPath)
	assert.Equal(t, "Jawaban", cfg.Sheet)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, cfg.Expected)
	assert.Equal(t, "/tmp/history.db", cfg.DBPath)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("data: [unclosed"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("KUESIONER_TOKEN_TTL", "forever")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.AdminPasswordHash = "hash"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DataPath = " "
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.TokenTTL = 0
	assert.Error(t, cfg.Validate())
}
