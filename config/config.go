// Package config loads portal settings from portal.yaml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/threatinsight/portal-backend/database"
	"github.com/threatinsight/portal-backend/ml/trainer"
)

// DefaultFile is read when no config path is given.
const DefaultFile = "portal.yaml"

// Data source kinds.
const (
	SourceFile     = "file"
	SourceArangoDB = "arangodb"
)

// Config is the full portal configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Training TrainingConfig `yaml:"training"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address     string        `yaml:"address" validate:"required"`
	AppName     string        `yaml:"app_name"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// DataConfig selects where incidents are loaded from.
type DataConfig struct {
	Source string `yaml:"source" validate:"oneof=file arangodb"`
	Path   string `yaml:"path" validate:"required_if=Source file"`
}

// TrainingConfig controls the split and the forests.
type TrainingConfig struct {
	Trees     int     `yaml:"trees" validate:"gte=1"`
	TestRatio float64 `yaml:"test_ratio" validate:"gt=0,lt=1"`
	Seed      int64   `yaml:"seed"`
	MaxDepth  int     `yaml:"max_depth" validate:"gte=0"`
}

// DatabaseConfig holds the ArangoDB connection settings.
type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time"`
}

// LogConfig sets the zap level.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:     ":8080",
			AppName:     "threat-insight-portal",
			ReadTimeout: 60 * time.Second,
		},
		Data: DataConfig{
			Source: SourceFile,
			Path:   "clean_global_cybersecurity_threats.csv",
		},
		Training: TrainingConfig{
			Trees:     100,
			TestRatio: 0.2,
			Seed:      42,
		},
		Database: DatabaseConfig{
			URL:            "http://localhost:8529",
			User:           "root",
			Name:           "threatinsight",
			MaxElapsedTime: 2 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads .env, then the YAML file at path, then environment overrides, and
// validates the result. A missing file is only an error when path was given
// explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	file := path
	if file == "" {
		file = DefaultFile
	}
	raw, err := os.ReadFile(file) // #nosec G304
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == "":
		zap.S().Debugf("No %s found, using defaults", file)
	default:
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Address = database.GetEnvDefault("PORTAL_ADDR", c.Server.Address)
	c.Data.Source = database.GetEnvDefault("PORTAL_DATA_SOURCE", c.Data.Source)
	c.Data.Path = database.GetEnvDefault("PORTAL_DATA_PATH", c.Data.Path)
	c.Log.Level = database.GetEnvDefault("LOG_LEVEL", c.Log.Level)

	if host, ok := os.LookupEnv("ARANGO_HOST"); ok {
		c.Database.URL = "http://" + host + ":" + database.GetEnvDefault("ARANGO_PORT", "8529")
	}
	c.Database.URL = database.GetEnvDefault("ARANGO_URL", c.Database.URL)
	c.Database.User = database.GetEnvDefault("ARANGO_USER", c.Database.User)
	c.Database.Password = database.GetEnvDefault("ARANGO_PASS", c.Database.Password)
	c.Database.Name = database.GetEnvDefault("ARANGO_DB", c.Database.Name)

	var err error
	if c.Training.Trees, err = envInt("PORTAL_TREES", c.Training.Trees); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("PORTAL_TEST_RATIO"); ok {
		if c.Training.TestRatio, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("PORTAL_TEST_RATIO: %w", err)
		}
	}
	if v, ok := os.LookupEnv("PORTAL_SEED"); ok {
		if c.Training.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("PORTAL_SEED: %w", err)
		}
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TrainerConfig converts the training section into trainer settings.
func (c *Config) TrainerConfig() trainer.Config {
	tc := trainer.DefaultConfig()
	tc.TestRatio = c.Training.TestRatio
	tc.Seed = c.Training.Seed
	tc.Forest.Trees = c.Training.Trees
	tc.Forest.MaxDepth = c.Training.MaxDepth
	tc.Forest.Seed = c.Training.Seed
	return tc
}

// DatabaseOptions converts the database section into connection options.
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		URL:             c.Database.URL,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Name:            c.Database.Name,
		InitialInterval: 2 * time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  c.Database.MaxElapsedTime,
	}
}
