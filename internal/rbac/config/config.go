package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	MongoURI     string
	Port         string
	DBName       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	LogLevel  string
	LogOutput string

	// Event notifier, disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EventChannel  string

	// Workflow engine (Flowable REST)
	EngineBaseURL  string
	EngineUsername string
	EnginePassword string
	EngineTimeout  time.Duration

	// Identity directory
	DirectoryBaseURL   string
	DirectoryTimeout   time.Duration
	DirectoryCacheSize int
	DirectoryCacheTTL  time.Duration

	MetricsEnabled bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("port", "8080")
	v.SetDefault("db_name", "taskrbac")
	v.SetDefault("server_read_timeout", "10s")
	v.SetDefault("server_write_timeout", "10s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("event_channel", "taskrbac.events")
	v.SetDefault("engine_base_url", "http://localhost:8081/flowable-rest/service")
	v.SetDefault("engine_timeout", "5s")
	v.SetDefault("directory_base_url", "http://localhost:8082")
	v.SetDefault("directory_timeout", "3s")
	v.SetDefault("directory_cache_size", 1024)
	v.SetDefault("directory_cache_ttl", "5m")
	v.SetDefault("metrics_enabled", true)
}

// LoadConfig reads defaults, then the optional config file, then the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	cfg := &Config{
		MongoURI:           v.GetString("mongo_uri"),
		Port:               v.GetString("port"),
		DBName:             v.GetString("db_name"),
		ReadTimeout:        parseDuration(v.GetString("server_read_timeout"), 10*time.Second),
		WriteTimeout:       parseDuration(v.GetString("server_write_timeout"), 10*time.Second),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		LogOutput:          strings.ToLower(v.GetString("log_output")),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		EventChannel:       v.GetString("event_channel"),
		EngineBaseURL:      v.GetString("engine_base_url"),
		EngineUsername:     v.GetString("engine_username"),
		EnginePassword:     v.GetString("engine_password"),
		EngineTimeout:      parseDuration(v.GetString("engine_timeout"), 5*time.Second),
		DirectoryBaseURL:   v.GetString("directory_base_url"),
		DirectoryTimeout:   parseDuration(v.GetString("directory_timeout"), 3*time.Second),
		DirectoryCacheSize: v.GetInt("directory_cache_size"),
		DirectoryCacheTTL:  parseDuration(v.GetString("directory_cache_ttl"), 5*time.Minute),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.EngineBaseURL == "" {
		return fmt.Errorf("ENGINE_BASE_URL is required")
	}
	if c.DirectoryBaseURL == "" {
		return fmt.Errorf("DIRECTORY_BASE_URL is required")
	}
	if c.DirectoryCacheSize <= 0 {
		return fmt.Errorf("DIRECTORY_CACHE_SIZE must be positive")
	}
	return nil
}

// parseDuration accepts plain seconds ("10") or a Go duration ("10s").
func parseDuration(valStr string, fallback time.Duration) time.Duration {
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		d, err := time.ParseDuration(valStr)
		if err == nil {
			return d
		}
		return fallback
	}
	return time.Duration(val) * time.Second
}
