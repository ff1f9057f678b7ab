package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo = "mongo"
	BackendFile  = "file"
)

// Config holds all application configuration
type Config struct {
	Backend        string        `json:"backend"`
	MongoURI       string        `json:"mongo_uri"`
	MongoDatabase  string        `json:"mongo_database"`
	Collection     string        `json:"collection"`
	DataFile       string        `json:"data_file"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	OpTimeout      time.Duration `json:"op_timeout"`
	LogLevel       string        `json:"log_level"`
	LogFile        string        `json:"log_file"`
	Theme          string        `json:"theme"`
}

// Load reads envFile (if it exists) into the environment without overriding
// variables that are already set, then builds the configuration from the
// environment with sensible defaults. An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	return LoadConfig()
}

// LoadConfig loads configuration from environment variables with sensible defaults
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Backend:        getEnvString("STORE_BACKEND", BackendMongo),
		MongoURI:       getEnvString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvString("MONGO_DATABASE", "taskmanager"),
		Collection:     getEnvString("MONGO_COLLECTION", "tasks"),
		DataFile:       getEnvString("DATA_FILE", "tasks.json"),
		ConnectTimeout: getEnvDuration("CONNECT_TIMEOUT", 5*time.Second),
		OpTimeout:      getEnvDuration("OP_TIMEOUT", 10*time.Second),
		LogLevel:       getEnvString("LOG_LEVEL", "WARN"),
		LogFile:        strings.TrimSpace(os.Getenv("LOG_FILE")),
		Theme:          getEnvString("THEME", "classic"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		// bare integers are seconds
		if secs := getEnvInt(key, -1); secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// validate performs basic validation of the configuration
func (c *Config) validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("mongo URI cannot be empty")
		}
		if strings.TrimSpace(c.MongoDatabase) == "" {
			return fmt.Errorf("mongo database cannot be empty")
		}
		if strings.TrimSpace(c.Collection) == "" {
			return fmt.Errorf("mongo collection cannot be empty")
		}
	case BackendFile:
		if strings.TrimSpace(c.DataFile) == "" {
			return fmt.Errorf("data file cannot be empty when the file backend is selected")
		}
	default:
		return fmt.Errorf("invalid store backend '%s': must be mongo or file", c.Backend)
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("invalid connect timeout %v: must be positive", c.ConnectTimeout)
	}
	if c.ConnectTimeout > 2*time.Minute {
		return fmt.Errorf("invalid connect timeout %v: must not exceed 2 minutes", c.ConnectTimeout)
	}
	if c.OpTimeout <= 0 {
		return fmt.Errorf("invalid operation timeout %v: must be positive", c.OpTimeout)
	}
	if c.OpTimeout > 5*time.Minute {
		return fmt.Errorf("invalid operation timeout %v: must not exceed 5 minutes", c.OpTimeout)
	}

	validLevels := map[string]bool{
		"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true,
	}
	upperLevel := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if !validLevels[upperLevel] {
		return fmt.Errorf("invalid log level '%s': must be DEBUG, INFO, WARN, ERROR, or FATAL", c.LogLevel)
	}
	c.LogLevel = upperLevel

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	return nil
}
