package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	nuts "github.com/vaudience/go-nuts"
)

const envPrefix = "SENSORSCORE"

// Record store backends
const (
	BackendNone     = ""
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	Records    RecordsConfig    `mapstructure:"records"`
	FileStore  FileStoreConfig  `mapstructure:"filestore"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	StaticDir       string        `mapstructure:"static_dir"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether a credential is present
func (c OpenAIConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type ElevenLabsConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether a credential is present
func (c ElevenLabsConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type RecordsConfig struct {
	Backend  string         `mapstructure:"backend"`
	Table    string         `mapstructure:"table"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns URL when set, else a key/value connection string
func (c PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type FileStoreConfig struct {
	BasePath  string `mapstructure:"base_path"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// legacyEnv maps config keys to the unprefixed variable names deployments already use
var legacyEnv = map[string][]string{
	"server.port":               {"PORT"},
	"openai.api_key":            {"OPENAI_API_KEY"},
	"openai.base_url":           {"OPENAI_BASE_URL"},
	"elevenlabs.api_key":        {"ELEVENLABS_API_KEY"},
	"records.postgres.url":      {"DATABASE_URL"},
	"records.redis.addr":        {"REDIS_ADDR"},
	"records.redis.password":    {"REDIS_PASSWORD"},
	"records.sqlite.path":       {"SQLITE_PATH"},
	"filestore.base_path":       {"AUDIO_DIR"},
	"server.static_dir":         {"STATIC_DIR"},
	"elevenlabs.base_url":       {"ELEVENLABS_BASE_URL"},
	"records.backend":           {"RECORDS_BACKEND"},
	"openai.model":              {"OPENAI_MODEL"},
	"server.host":               {"HOST"},
	"records.postgres.host":     {"PGHOST"},
	"records.postgres.user":     {"PGUSER"},
	"records.postgres.password": {"PGPASSWORD"},
	"records.postgres.dbname":   {"PGDATABASE"},
}

// Load initializes configuration from environment variables and config file.
// configPaths are searched for config.yaml; "./config" is used when none are given.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	for key, names := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	// Load config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"./config"}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	// covers two openai calls plus one composition at their default timeouts
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.static_dir", "./dist")
	v.SetDefault("server.cors_origins", []string{"*"})

	// Upstream defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-5-mini")
	v.SetDefault("openai.timeout", "120s")
	v.SetDefault("elevenlabs.api_key", "")
	v.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io")
	v.SetDefault("elevenlabs.timeout", "5m")

	// Record store defaults
	v.SetDefault("records.backend", BackendNone)
	v.SetDefault("records.table", "music_generations")
	v.SetDefault("records.postgres.url", "")
	v.SetDefault("records.postgres.host", "")
	v.SetDefault("records.postgres.port", 5432)
	v.SetDefault("records.postgres.user", "")
	v.SetDefault("records.postgres.password", "")
	v.SetDefault("records.postgres.dbname", "sensorscore")
	v.SetDefault("records.postgres.sslmode", "disable")
	v.SetDefault("records.sqlite.path", "./data/sensorscore.db")
	v.SetDefault("records.redis.addr", "localhost:6379")
	v.SetDefault("records.redis.password", "")
	v.SetDefault("records.redis.db", 0)
	v.SetDefault("records.redis.key_prefix", "sensorscore")

	// FileStore defaults
	v.SetDefault("filestore.base_path", "./public/audio")
	v.SetDefault("filestore.url_prefix", "/audio")
}

func validateConfig(config *Config) error {
	config.Records.Backend = strings.ToLower(strings.TrimSpace(config.Records.Backend))
	switch config.Records.Backend {
	case "none", "off", "disabled":
		config.Records.Backend = BackendNone
	case BackendNone, BackendPostgres, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown records backend %q (want postgres, sqlite, redis or empty)", config.Records.Backend)
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", config.Server.Port)
	}
	if config.FileStore.BasePath == "" {
		return fmt.Errorf("filestore base path is required")
	}
	if budget := config.RunTimeout(); config.Server.WriteTimeout > 0 && config.Server.WriteTimeout < budget {
		nuts.L.Warnf("[Config] server.write_timeout %v is below the upstream budget %v, raising it", config.Server.WriteTimeout, budget)
		config.Server.WriteTimeout = budget
	}
	return nil
}

// RunTimeout is the longest a generation run can wait on upstreams:
// a brief call, a prompt call and a composition.
func (c *Config) RunTimeout() time.Duration {
	return 2*c.OpenAI.Timeout + c.ElevenLabs.Timeout + time.Minute
}
