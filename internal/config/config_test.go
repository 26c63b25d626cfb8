package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANALYSIS_DB_PATH", "ANALYSIS_DATA_JSON", "ANALYSIS_DB_DRIVER", "ANALYSIS_DB_DSN",
		"PORT", "LOG_LEVEL", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "analysis.db", cfg.Database.Path)
	assert.Equal(t, "analysis_data.json", cfg.Seed.Path)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.Error(t, err)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
server:
  port: 9000
database:
  path: /var/lib/analysis/file.db
seed:
  path: seed-from-file.json
log:
  level: debug
`)

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "/var/lib/analysis/file.db", cfg.Database.Path)
		assert.Equal(t, "seed-from-file.json", cfg.Seed.Path)
		assert.Equal(t, "debug", cfg.Log.Level)
		// untouched keys keep defaults
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	})

	t.Run("env wins", func(t *testing.T) {
		t.Setenv("ANALYSIS_DB_PATH", "env.db")
		t.Setenv("ANALYSIS_DATA_JSON", "env.json")
		t.Setenv("PORT", "8081")

		cfg, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, "env.db", cfg.Database.Path)
		assert.Equal(t, "env.json", cfg.Seed.Path)
		assert.Equal(t, 8081, cfg.Server.Port)
	})
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "server: [unterminated")
	_, err := Load(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	t.Run("collects every problem", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = 0
		cfg.Database.Driver = "oracle"
		cfg.Seed.Path = ""
		assert.Len(t, cfg.Validate(), 3)
	})

	t.Run("bad PORT env", func(t *testing.T) {
		t.Setenv("PORT", "http")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"), false)
		require.NoError(t, err)
		assert.Len(t, cfg.Validate(), 1)
	})

	t.Run("object seed needs minio", func(t *testing.T) {
		cfg := Default()
		cfg.Seed.Path = "s3://seeds/analysis_data.json"
		require.Len(t, cfg.Validate(), 1)

		cfg.Minio.Endpoint = "minio:9000"
		assert.Empty(t, cfg.Validate())
	})

	t.Run("server drivers need a target", func(t *testing.T) {
		cfg := Default()
		cfg.Database.Driver = DriverPostgres
		require.Len(t, cfg.Validate(), 1)
		cfg.Database.DSN = "postgres://localhost/analysis"
		assert.Empty(t, cfg.Validate())
	})
}

func TestDSNHelpers(t *testing.T) {
	cfg := Default()
	cfg.Database.Host = "db"
	cfg.Database.User = "app"
	cfg.Database.Password = "p@ss"
	cfg.Database.Name = "analysis"

	assert.Equal(t, "app:p@ss@tcp(db:3306)/analysis?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.Equal(t, "postgres://app:p%40ss@db:5432/analysis?sslmode=disable", cfg.PostgresDSN())

	cfg.Database.DSN = "explicit"
	assert.Equal(t, "explicit", cfg.MySQLDSN())
	assert.Equal(t, "explicit", cfg.PostgresDSN())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANALYSIS_DB_PATH", "already-set.db")
	os.Unsetenv("ANALYSIS_DATA_JSON")
	path := writeFile(t, ".env", "ANALYSIS_DB_PATH=from-dotenv.db\nANALYSIS_DATA_JSON=from-dotenv.json\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "already-set.db", os.Getenv("ANALYSIS_DB_PATH"))
	assert.Equal(t, "from-dotenv.json", os.Getenv("ANALYSIS_DATA_JSON"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
