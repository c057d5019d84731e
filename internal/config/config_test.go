package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/totegamma/chitfund/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9000"
  postgresDsn: "host=db user=postgres"
  redisAddr: "redis:6379"
network:
  cache: redis
  cacheTTLSeconds: 60
  queriesPerSecond: 20
  queryBurst: 5
report:
  workers: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Server.Listen)
	require.Equal(t, domain.MemberSourcePostgres, cfg.Network.Source)
	require.Equal(t, domain.CacheRedis, cfg.Network.Cache)
	require.Equal(t, 60.0, cfg.Network.CacheTTL().Seconds())
	require.Equal(t, 8, cfg.Report.Workers)
	require.Equal(t, "chitfund:reports", cfg.Report.Channel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown source", body: "server:\n  postgresDsn: x\nnetwork:\n  source: mysql\n"},
		{name: "neo4j without uri", body: "network:\n  source: neo4j\n"},
		{name: "postgres without dsn", body: "network:\n  source: postgres\n"},
		{name: "redis cache without addr", body: "server:\n  postgresDsn: x\nnetwork:\n  cache: redis\n"},
		{name: "trace without endpoint", body: "server:\n  postgresDsn: x\n  enableTrace: true\n"},
		{name: "zero workers", body: "server:\n  postgresDsn: x\nreport:\n  workers: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault_Neo4j(t *testing.T) {
	cfg := Default()
	cfg.Network.Source = domain.MemberSourceNeo4j
	cfg.Network.Neo4jURI = "bolt://localhost:7687"
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "host=env")
	t.Setenv("NEO4J_PASSWORD", "secret")

	cfg, err := Load(writeConfig(t, "server:\n  listen: \":8000\"\n"))
	require.NoError(t, err)
	require.Equal(t, "host=env", cfg.Server.PostgresDsn)
	require.Equal(t, "secret", cfg.Network.Neo4jPassword)
}
