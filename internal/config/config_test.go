package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

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
		"history": { "capacity": 10 },
		"server": { "listen": "0.0.0.0:8080" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 10, viper.GetInt("history.capacity"))
	assert.Equal(t, "0.0.0.0:8080", viper.GetString("server.listen"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 50, viper.GetInt("history.capacity"))
	assert.Equal(t, 22, viper.GetInt("geo.referenceZoom"))
	assert.Equal(t, false, viper.GetBool("grid.enabled"))
	assert.Equal(t, 10.0, viper.GetFloat64("grid.size"))
	assert.Equal(t, "127.0.0.1:5029", viper.GetString("server.listen"))
	assert.Equal(t, "autocross_editor", viper.GetString("venue.userAgent"))
	assert.Equal(t, "./courses", viper.GetString("export.outputDir"))
	assert.Equal(t, "sqlite", viper.GetString("archive.driver"))
	assert.Equal(t, "fs", viper.GetString("publish.driver"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
	assert.True(t, IsNotFound(err))
}

func TestLoad_BrokenFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(writeConfig(t, `{"grid": `))
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetEditorConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{"grid": {"enabled": true, "size": 15, "rotation": 22.5}}`)))

	cfg := GetEditorConfig()
	assert.Equal(t, 50, cfg.HistoryCapacity)
	assert.Equal(t, 22, cfg.ReferenceZoom)
	assert.True(t, cfg.GridEnabled)
	assert.Equal(t, 15.0, cfg.GridSize)
	assert.Equal(t, 22.5, cfg.GridRotation)
}

func TestGetServerAndVenueConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	sc := GetServerConfig()
	assert.Equal(t, "127.0.0.1:5029", sc.Listen)
	assert.Equal(t, 10_000, sc.SendBuffer)
	assert.Equal(t, 10*time.Second, sc.WriteWait)

	vc := GetVenueConfig()
	assert.Equal(t, "https://nominatim.openstreetmap.org", vc.BaseURL)
	assert.Equal(t, 30*time.Second, vc.Timeout)
}

func TestGetArchiveConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"archive": {
			"driver": "postgres",
			"postgres": { "host": "db.internal", "port": "5433", "database": "courses" }
		}
	}`)))

	ac := GetArchiveConfig()
	assert.Equal(t, "postgres", ac.Driver)
	assert.Equal(t, "db.internal", ac.Postgres.Host)
	assert.Equal(t, "5433", ac.Postgres.Port)
	assert.Equal(t, "courses", ac.Postgres.Database)
	assert.Equal(t, "postgres", ac.Postgres.Username)
	assert.Equal(t, "./courses.db", ac.SQLite.Path)
}

func TestGetPublishConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"publish": {
			"driver": "s3",
			"s3": { "bucket": "courses", "endpoint": "http://localhost:9000", "usePathStyle": true }
		}
	}`)))

	pc := GetPublishConfig()
	assert.Equal(t, "s3", pc.Driver)
	assert.Equal(t, "courses", pc.S3.Bucket)
	assert.Equal(t, "courses/", pc.S3.Prefix)
	assert.Equal(t, "http://localhost:9000", pc.S3.Endpoint)
	assert.True(t, pc.S3.UsePathStyle)
	assert.Equal(t, "./published", pc.FS.Dir)
}

func TestGetExportConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("export.compress", true)

	ec := GetExportConfig()
	assert.Equal(t, "./courses", ec.OutputDir)
	assert.True(t, ec.Compress)
}
