package config

import (
	"fmt"
	"time"

	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "autodrive.cfg.json"

// MemoryConfig holds in-memory/JSON journal backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the in-memory SQLite journal and its dumps.
type SQLiteConfig struct {
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// StorageConfig selects and configures the journal backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// DBConfig is the Postgres connection.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	// FallbackPath is a SQLite file used when Postgres is unreachable; empty disables it.
	FallbackPath string `json:"fallbackPath" mapstructure:"fallbackPath"`
}

// DSN renders the connection string for the postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// InfluxConfig holds the InfluxDB telemetry settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// URL is the server address built from protocol, host and port.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// OTelConfig holds OpenTelemetry log export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SetDefaults registers every default value.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./autodrivelogs")

	def := autodrive.DefaultConfig()
	viper.SetDefault("planner.maxNodes", def.MaxNodes)
	viper.SetDefault("planner.moveCost", def.MoveCost)
	viper.SetDefault("planner.steerCost", def.SteerCost)
	viper.SetDefault("planner.obstaclePenalty", def.ObstaclePenalty)
	viper.SetDefault("planner.forwardWeight", def.ForwardWeight)
	viper.SetDefault("planner.lateralWeight", def.LateralWeight)
	viper.SetDefault("planner.alignmentWeight", def.AlignmentWeight)

	viper.SetDefault("sim.maxTurns", 500)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./journals")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "1m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "autodrive")
	viper.SetDefault("db.fallbackPath", "")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "autodrive")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "autodrive")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// SimConfig bounds simulator runs.
type SimConfig struct {
	MaxTurns int `json:"maxTurns" mapstructure:"maxTurns"`
}

// Settings is the whole configuration tree.
type Settings struct {
	LogLevel string           `json:"logLevel" mapstructure:"logLevel"`
	LogsDir  string           `json:"logsDir" mapstructure:"logsDir"`
	Planner  autodrive.Config `json:"planner" mapstructure:"planner"`
	Sim      SimConfig        `json:"sim" mapstructure:"sim"`
	Storage  StorageConfig    `json:"storage" mapstructure:"storage"`
	DB       DBConfig         `json:"db" mapstructure:"db"`
	Influx   InfluxConfig     `json:"influx" mapstructure:"influx"`
	OTel     OTelConfig       `json:"otel" mapstructure:"otel"`
}

// Get decodes the merged defaults and file values. Decoding the whole tree
// keeps defaults for keys a partial file section leaves out.
func Get() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// Planner returns the planner weights and limits.
func Planner() (autodrive.Config, error) {
	s, err := Get()
	return s.Planner, err
}

// Storage returns the journal backend settings.
func Storage() (StorageConfig, error) {
	s, err := Get()
	return s.Storage, err
}

// DB returns the Postgres connection settings.
func DB() (DBConfig, error) {
	s, err := Get()
	return s.DB, err
}

// Influx returns the telemetry settings.
func Influx() (InfluxConfig, error) {
	s, err := Get()
	return s.Influx, err
}

// OTel returns the OpenTelemetry settings.
func OTel() (OTelConfig, error) {
	s, err := Get()
	return s.OTel, err
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
