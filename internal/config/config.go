package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "coursekit.cfg.json"

// EditorConfig holds the per-session editor settings.
type EditorConfig struct {
	HistoryCapacity int     `json:"historyCapacity" mapstructure:"historyCapacity"`
	ReferenceZoom   int     `json:"referenceZoom" mapstructure:"referenceZoom"`
	GridEnabled     bool    `json:"gridEnabled" mapstructure:"gridEnabled"`
	GridSize        float64 `json:"gridSize" mapstructure:"gridSize"`
	GridRotation    float64 `json:"gridRotation" mapstructure:"gridRotation"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen      string        `json:"listen" mapstructure:"listen"`
	SendBuffer  int           `json:"sendBuffer" mapstructure:"sendBuffer"`
	WriteWait   time.Duration `json:"writeWait" mapstructure:"writeWait"`
	StaticDir   string        `json:"staticDir" mapstructure:"staticDir"`
	CheckOrigin bool          `json:"checkOrigin" mapstructure:"checkOrigin"`
}

// VenueConfig holds geocoding client settings.
type VenueConfig struct {
	BaseURL   string        `json:"baseUrl" mapstructure:"baseUrl"`
	UserAgent string        `json:"userAgent" mapstructure:"userAgent"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
}

// ExportConfig holds course file export settings.
type ExportConfig struct {
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`
	Compress  bool   `json:"compress" mapstructure:"compress"`
}

// SQLiteConfig holds SQLite archive settings.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PostgresConfig holds Postgres archive settings.
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslMode" mapstructure:"sslMode"`
}

// ArchiveConfig selects and configures the course archive database.
type ArchiveConfig struct {
	Driver   string         `json:"driver" mapstructure:"driver"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// FSConfig holds filesystem publish settings.
type FSConfig struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// S3Config holds S3 publish settings.
type S3Config struct {
	Bucket       string `json:"bucket" mapstructure:"bucket"`
	Prefix       string `json:"prefix" mapstructure:"prefix"`
	Region       string `json:"region" mapstructure:"region"`
	Endpoint     string `json:"endpoint" mapstructure:"endpoint"`
	AccessKey    string `json:"accessKey" mapstructure:"accessKey"`
	SecretKey    string `json:"secretKey" mapstructure:"secretKey"`
	UsePathStyle bool   `json:"usePathStyle" mapstructure:"usePathStyle"`
}

// PublishConfig selects where exported courses are published.
type PublishConfig struct {
	Driver string   `json:"driver" mapstructure:"driver"`
	FS     FSConfig `json:"fs" mapstructure:"fs"`
	S3     S3Config `json:"s3" mapstructure:"s3"`
}

// SetDefaults registers every default value. Load calls it; commands that
// run without a config file call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("history.capacity", 50)
	viper.SetDefault("geo.referenceZoom", 22)

	viper.SetDefault("grid.enabled", false)
	viper.SetDefault("grid.size", 10)
	viper.SetDefault("grid.rotation", 0)

	viper.SetDefault("server.listen", "127.0.0.1:5029")
	viper.SetDefault("server.sendBuffer", 10_000)
	viper.SetDefault("server.writeWait", "10s")
	viper.SetDefault("server.staticDir", "")
	viper.SetDefault("server.checkOrigin", false)

	viper.SetDefault("venue.baseUrl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("venue.userAgent", "autocross_editor")
	viper.SetDefault("venue.timeout", "30s")

	viper.SetDefault("export.outputDir", "./courses")
	viper.SetDefault("export.compress", false)

	viper.SetDefault("archive.driver", "sqlite")
	viper.SetDefault("archive.sqlite.path", "./courses.db")
	viper.SetDefault("archive.postgres.host", "localhost")
	viper.SetDefault("archive.postgres.port", "5432")
	viper.SetDefault("archive.postgres.username", "postgres")
	viper.SetDefault("archive.postgres.password", "postgres")
	viper.SetDefault("archive.postgres.database", "coursekit")
	viper.SetDefault("archive.postgres.sslMode", "disable")

	viper.SetDefault("publish.driver", "fs")
	viper.SetDefault("publish.fs.dir", "./published")
	viper.SetDefault("publish.s3.bucket", "")
	viper.SetDefault("publish.s3.prefix", "courses/")
	viper.SetDefault("publish.s3.region", "us-east-1")
	viper.SetDefault("publish.s3.endpoint", "")
	viper.SetDefault("publish.s3.accessKey", "")
	viper.SetDefault("publish.s3.secretKey", "")
	viper.SetDefault("publish.s3.usePathStyle", false)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// IsNotFound reports whether a Load error means the config file is absent,
// as opposed to present but unreadable.
func IsNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetEditorConfig returns the editor settings.
func GetEditorConfig() EditorConfig {
	return EditorConfig{
		HistoryCapacity: viper.GetInt("history.capacity"),
		ReferenceZoom:   viper.GetInt("geo.referenceZoom"),
		GridEnabled:     viper.GetBool("grid.enabled"),
		GridSize:        viper.GetFloat64("grid.size"),
		GridRotation:    viper.GetFloat64("grid.rotation"),
	}
}

// GetServerConfig returns the HTTP server settings.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Listen:      viper.GetString("server.listen"),
		SendBuffer:  viper.GetInt("server.sendBuffer"),
		WriteWait:   viper.GetDuration("server.writeWait"),
		StaticDir:   viper.GetString("server.staticDir"),
		CheckOrigin: viper.GetBool("server.checkOrigin"),
	}
}

// GetVenueConfig returns the geocoding client settings.
func GetVenueConfig() VenueConfig {
	return VenueConfig{
		BaseURL:   viper.GetString("venue.baseUrl"),
		UserAgent: viper.GetString("venue.userAgent"),
		Timeout:   viper.GetDuration("venue.timeout"),
	}
}

// GetExportConfig returns the export settings.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		OutputDir: viper.GetString("export.outputDir"),
		Compress:  viper.GetBool("export.compress"),
	}
}

// GetArchiveConfig returns the archive database settings.
func GetArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		Driver: viper.GetString("archive.driver"),
		SQLite: SQLiteConfig{
			Path: viper.GetString("archive.sqlite.path"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("archive.postgres.host"),
			Port:     viper.GetString("archive.postgres.port"),
			Username: viper.GetString("archive.postgres.username"),
			Password: viper.GetString("archive.postgres.password"),
			Database: viper.GetString("archive.postgres.database"),
			SSLMode:  viper.GetString("archive.postgres.sslMode"),
		},
	}
}

// GetPublishConfig returns the publish sink settings.
func GetPublishConfig() PublishConfig {
	return PublishConfig{
		Driver: viper.GetString("publish.driver"),
		FS: FSConfig{
			Dir: viper.GetString("publish.fs.dir"),
		},
		S3: S3Config{
			Bucket:       viper.GetString("publish.s3.bucket"),
			Prefix:       viper.GetString("publish.s3.prefix"),
			Region:       viper.GetString("publish.s3.region"),
			Endpoint:     viper.GetString("publish.s3.endpoint"),
			AccessKey:    viper.GetString("publish.s3.accessKey"),
			SecretKey:    viper.GetString("publish.s3.secretKey"),
			UsePathStyle: viper.GetBool("publish.s3.usePathStyle"),
		},
	}
}
