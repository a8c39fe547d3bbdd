package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)
	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	s, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "./autodrivelogs", s.LogsDir)
	assert.Equal(t, autodrive.DefaultConfig(), s.Planner)
	assert.Equal(t, 500, s.Sim.MaxTurns)
	assert.Equal(t, StorageConfig{
		Type:   "memory",
		Memory: MemoryConfig{OutputDir: "./journals", CompressOutput: true},
		SQLite: SQLiteConfig{DumpInterval: time.Minute},
	}, s.Storage)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=autodrive sslmode=disable", s.DB.DSN())
	assert.False(t, s.Influx.Enabled)
	assert.Equal(t, "http://localhost:8086", s.Influx.URL())
	assert.Equal(t, OTelConfig{ServiceName: "autodrive", BatchTimeout: 5 * time.Second, Insecure: true}, s.OTel)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestPlanner_PartialOverrideKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{"planner": {"maxNodes": 500, "steerCost": 3.5}}`)))

	cfg, err := Planner()
	require.NoError(t, err)
	want := autodrive.DefaultConfig()
	want.MaxNodes = 500
	want.SteerCost = 3.5
	assert.Equal(t, want, cfg)
}

func TestStorage_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpPath": "/tmp/journal.db", "dumpInterval": "10m" }
		}
	}`)))

	sc, err := Storage()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.False(t, sc.Memory.CompressOutput)
	assert.Equal(t, "/tmp/journal.db", sc.SQLite.DumpPath)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
}

func TestOTel_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)))

	oc, err := OTel()
	require.NoError(t, err)
	assert.Equal(t, OTelConfig{
		Enabled:      true,
		ServiceName:  "my-service",
		BatchTimeout: 30 * time.Second,
		Endpoint:     "localhost:4318",
	}, oc)
}

func TestInfluxAndDB(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"influx": { "enabled": true, "protocol": "https", "host": "metrics" },
		"db": { "database": "drives" }
	}`)))

	ic, err := Influx()
	require.NoError(t, err)
	assert.True(t, ic.Enabled)
	assert.Equal(t, "https://metrics:8086", ic.URL())

	dc, err := DB()
	require.NoError(t, err)
	assert.Equal(t, "drives", dc.Database)
	assert.Equal(t, "localhost", dc.Host)
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testInt", 42)
	viper.Set("testBool", true)

	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, 42, GetInt("testInt"))
	assert.True(t, GetBool("testBool"))
}
