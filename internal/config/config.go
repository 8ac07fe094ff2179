package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the local facade the hosting UI talks to
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig points at the remote ask/upload endpoints
type APIConfig struct {
	AskEndpoint    string        `mapstructure:"ask_endpoint"`
	UploadEndpoint string        `mapstructure:"upload_endpoint"`
	DefaultFileID  string        `mapstructure:"default_file_id"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects the durable key-value backend for sessions
type StorageConfig struct {
	Backend string       `mapstructure:"backend"` // sqlite, redis, or memory
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	Redis   RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Remote API
	v.SetDefault("api.ask_endpoint", "http://localhost:8000/api/ask")
	v.SetDefault("api.upload_endpoint", "http://localhost:8000/api/upload")
	v.SetDefault("api.default_file_id", "9dc50dff")
	v.SetDefault("api.timeout", "30s")

	// Storage
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.sqlite.path", "chatpdf.db")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.db", 0)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "SERVER_PORT")

	v.BindEnv("api.ask_endpoint", "ASK_ENDPOINT")
	v.BindEnv("api.upload_endpoint", "UPLOAD_ENDPOINT")
	v.BindEnv("api.default_file_id", "DEFAULT_FILE_ID")

	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.sqlite.path", "SQLITE_PATH")
	v.BindEnv("storage.redis.password", "REDIS_PASSWORD")
}
