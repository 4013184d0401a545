package common

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	OCR      OCRConfig      `yaml:"ocr"`
	Queue    QueueConfig    `yaml:"queue"`
	Export   ExportConfig   `yaml:"export"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds database-related configuration. DSNs starting with postgres://
// select Postgres; anything else is opened with the embedded sqlite driver.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	TesseractBin     string        `yaml:"tesseract_bin"`
	Languages        string        `yaml:"languages"`
	PSM              int           `yaml:"psm"`
	HeicConverter    string        `yaml:"heic_converter"`
	TessdataDir      string        `yaml:"tessdata_dir"`
	ArtifactCacheDir string        `yaml:"artifact_cache_dir"`
	MinConfidence    float64       `yaml:"min_confidence"`
	Timeout          time.Duration `yaml:"timeout"`
}

// QueueConfig sizes the background survey queue.
type QueueConfig struct {
	Workers        int           `yaml:"workers"`
	Size           int           `yaml:"size"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// WatchConfig controls folder watch mode in the daemon.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Root     string        `yaml:"root"`
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             "file:scope-mapper.db?_pragma=foreign_keys(1)",
			MaxConns:        20,
			MinConns:        5,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Server: ServerConfig{GRPCAddr: ":8080"},
		OCR: OCRConfig{
			TesseractBin:     "tesseract",
			Languages:        "eng",
			PSM:              11,
			HeicConverter:    "magick",
			ArtifactCacheDir: "./tmp",
			MinConfidence:    0.3,
			Timeout:          60 * time.Second,
		},
		Queue: QueueConfig{
			Workers:        2,
			Size:           64,
			ProcessTimeout: 2 * time.Minute,
		},
		Export: ExportConfig{OutputDir: "./out"},
		Watch: WatchConfig{
			Root:     "./surveys",
			Debounce: 500 * time.Millisecond,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig builds the configuration from defaults, an optional .env file, an optional
// YAML file at CONFIG_PATH and finally environment variables.
func LoadConfig() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := DefaultConfig()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Database.DSN = getEnv("DB_URL", c.Database.DSN)
	c.Database.MaxConns = getEnvAsInt32("DB_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = getEnvAsInt32("DB_MIN_CONNS", c.Database.MinConns)
	c.Database.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", c.Database.MaxConnLifetime)
	c.Database.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", c.Database.MaxConnIdleTime)
	c.Database.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", c.Database.DialTimeout)
	c.Database.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", c.Database.StatementTimeout)

	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)

	c.OCR.TesseractBin = getEnv("TESSERACT_BIN", c.OCR.TesseractBin)
	c.OCR.Languages = getEnv("OCR_LANGUAGES", c.OCR.Languages)
	c.OCR.PSM = getEnvAsInt("OCR_PSM", c.OCR.PSM)
	c.OCR.HeicConverter = getEnv("HEIC_CONVERTER", c.OCR.HeicConverter)
	c.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", c.OCR.TessdataDir)
	c.OCR.ArtifactCacheDir = getEnv("ARTIFACT_CACHE_DIR", c.OCR.ArtifactCacheDir)
	c.OCR.MinConfidence = getEnvAsFloat64("OCR_MIN_CONFIDENCE", c.OCR.MinConfidence)
	c.OCR.Timeout = getEnvAsDuration("OCR_TIMEOUT", c.OCR.Timeout)

	c.Queue.Workers = getEnvAsInt("QUEUE_WORKERS", c.Queue.Workers)
	c.Queue.Size = getEnvAsInt("QUEUE_SIZE", c.Queue.Size)
	c.Queue.ProcessTimeout = getEnvAsDuration("QUEUE_PROCESS_TIMEOUT", c.Queue.ProcessTimeout)

	c.Export.OutputDir = getEnv("EXPORT_DIR", c.Export.OutputDir)

	c.Watch.Enabled = getEnvAsBool("WATCH_ENABLED", c.Watch.Enabled)
	c.Watch.Root = getEnv("WATCH_ROOT", c.Watch.Root)
	c.Watch.Debounce = getEnvAsDuration("WATCH_DEBOUNCE", c.Watch.Debounce)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "OCR_MIN_CONFIDENCE must be within [0,1]", ErrInvalidInput)
	}
	if c.Queue.Workers <= 0 || c.Queue.Size <= 0 {
		return NewAppError("CONFIG_ERROR", "QUEUE_WORKERS and QUEUE_SIZE must be positive", ErrInvalidInput)
	}
	if c.Watch.Enabled && c.Watch.Root == "" {
		return NewAppError("CONFIG_ERROR", "WATCH_ROOT is required when watching", ErrInvalidInput)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return NewAppError("CONFIG_ERROR", "LOG_LEVEL is invalid", err)
	}
	return nil
}

// IsPostgres reports whether the DSN targets Postgres.
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.DSN, "postgres://") || strings.HasPrefix(d.DSN, "postgresql://")
}

// ParseLogLevel accepts slog level names (debug, info, warn, error); empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidInput, s)
	}
	return lvl, nil
}
