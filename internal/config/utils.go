package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load reads defaults, then the YAML file named by CONFIG_FILE, then the
// environment. Later sources win.
func Load(logger *zap.Logger) (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
		logger.Info("config file loaded", zap.String("path", path))
	}

	cfg.BotToken = getEnv(logger, "TOKEN", cfg.BotToken, parseString)
	cfg.HTTPAddr = getEnv(logger, "HTTP_ADDR", cfg.HTTPAddr, parseString)
	cfg.AssetsDir = getEnv(logger, "ASSETS_DIR", cfg.AssetsDir, parseString)
	cfg.TempDir = getEnv(logger, "TEMP_DIR", cfg.TempDir, parseString)
	cfg.MaxFileSize = getEnv(logger, "MAX_FILE_SIZE", cfg.MaxFileSize, parsePositive)
	cfg.LogLevel = getEnv(logger, "LOG_LEVEL", cfg.LogLevel, parseString)
	cfg.DefaultMessage = getEnv(logger, "DEFAULT_MESSAGE", cfg.DefaultMessage, parseString)
	cfg.Order.Endpoint = getEnv(logger, "ORDER_ENDPOINT", cfg.Order.Endpoint, parseString)
	cfg.Order.TimeoutSeconds = int(getEnv(logger, "ORDER_TIMEOUT", int64(cfg.Order.TimeoutSeconds), parsePositive))
	cfg.Order.NodeID = getEnv(logger, "NODE_ID", cfg.Order.NodeID, parseInt)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" && c.HTTPAddr == "" {
		return errors.New("nothing to run: set TOKEN for the bot or HTTP_ADDR for the API")
	}
	if c.Order.NodeID < 0 || c.Order.NodeID > 1023 {
		return fmt.Errorf("node id %d out of range 0-1023", c.Order.NodeID)
	}
	return nil
}

// LoadFile merges a YAML file into cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getEnv[T any](logger *zap.Logger, key string, defaultValue T, parser func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	parsed, err := parser(val)
	if err != nil {
		logger.Warn("invalid env value, using default",
			zap.String("key", key),
			zap.String("value", val),
			zap.Any("default", defaultValue))
		return defaultValue
	}

	return parsed
}

func parseString(val string) (string, error) {
	return val, nil
}

func parseInt(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}

func parsePositive(val string) (int64, error) {
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}
