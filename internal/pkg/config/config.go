package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"consistencychecker/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MongoDB connection config
type MongoConfig struct {
	URI             string        `yaml:"uri" validate:"required"`
	DBName          string        `yaml:"db_name" validate:"required"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_minutes"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout_seconds"`
}

// Redis connection config, used by the advisory run lock.
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	ConnectTimeout time.Duration `yaml:"connect_timeout_seconds"`
}

type RunLockConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTLMinutes int           `yaml:"ttl_minutes"`
	TTL        time.Duration `yaml:"-"`
}

// ScopeConfig carries the financial-entity identifiers a run is restricted to.
type ScopeConfig struct {
	StopID string `yaml:"stop_id"`
	YoyoID string `yaml:"yoyo_id"`
}

// EntityIDs returns the financial-entity scope as a filter list.
func (s ScopeConfig) EntityIDs() []string {
	return []string{s.StopID, s.YoyoID}
}

// Validate fails when either scope identifier is missing. Routines that filter
// by entity scope call this before touching the store.
func (s ScopeConfig) Validate() error {
	if s.StopID == "" || s.YoyoID == "" {
		return errors.New("configure STOP_ID and YOYO_ID in the environment")
	}
	return nil
}

type EmailConfig struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

// Configured reports whether the notifier has everything it needs. A partial
// configuration disables notifications without failing the run.
func (e EmailConfig) Configured() bool {
	return e.APIKey != "" && e.From != "" && e.To != ""
}

type BackupConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

type GCSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Folder  string `yaml:"folder"`
}

type RoutinesConfig struct {
	PaymentLinksEnabled bool `yaml:"payment_links_enabled"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	RunLock  RunLockConfig  `yaml:"run_lock"`
	Scope    ScopeConfig    `yaml:"scope"`
	Email    EmailConfig    `yaml:"email"`
	Backup   BackupConfig   `yaml:"backup"`
	GCS      GCSConfig      `yaml:"gcs"`
	Routines RoutinesConfig `yaml:"routines"`
	Logging  LogConfig      `yaml:"logging"`
}

func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", defaultString(cfg.Logging.LogLevel, "info"))

	// MongoDB config defaults; env names match the environment the original
	// deployment already exports.
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGODB_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("DATABASE_NAME", cfg.Mongo.DBName)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", defaultUint64(cfg.Mongo.MaxPoolSize, 10))
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", defaultUint64(cfg.Mongo.MinPoolSize, 1))
	cfg.Mongo.MaxConnIdleTime = time.Duration(GetEnvOrDefaultAsInt("MONGO_MAX_CONN_IDLE_MINUTES", 5)) * time.Minute
	cfg.Mongo.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	// Redis / run lock defaults
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("REDIS_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second
	cfg.RunLock.Enabled = GetEnvOrDefaultAsBool("RUN_LOCK_ENABLED", cfg.RunLock.Enabled)
	if cfg.RunLock.TTLMinutes == 0 {
		cfg.RunLock.TTLMinutes = 30
	}
	cfg.RunLock.TTL = time.Duration(cfg.RunLock.TTLMinutes) * time.Minute

	// Financial-entity scope
	cfg.Scope.StopID = GetEnvOrDefaultAsString("STOP_ID", cfg.Scope.StopID)
	cfg.Scope.YoyoID = GetEnvOrDefaultAsString("YOYO_ID", cfg.Scope.YoyoID)

	// Email notification
	cfg.Email.APIKey = GetEnvOrDefaultAsString("RESEND_API_KEY", cfg.Email.APIKey)
	cfg.Email.From = GetEnvOrDefaultAsString("EMAIL_FROM", cfg.Email.From)
	cfg.Email.To = GetEnvOrDefaultAsString("EMAIL_TO", cfg.Email.To)

	// Artifact destinations
	cfg.Backup.Dir = GetEnvOrDefaultAsString("BACKUP_DIR", defaultString(cfg.Backup.Dir, "backups"))
	cfg.GCS.Enabled = GetEnvOrDefaultAsBool("GCS_MIRROR_ENABLED", cfg.GCS.Enabled)
	cfg.GCS.Bucket = GetEnvOrDefaultAsString("GCS_BUCKET_NAME", cfg.GCS.Bucket)
	cfg.GCS.Folder = GetEnvOrDefaultAsString("GCS_FOLDER_NAME", defaultString(cfg.GCS.Folder, "consistency-checker"))

	cfg.Routines.PaymentLinksEnabled = GetEnvOrDefaultAsBool("PAYMENT_LINKS_ENABLED", cfg.Routines.PaymentLinksEnabled)

	return cfg
}

// LoadFromConfigFilePath loads and parses the config file into AppConfig. A
// missing file is not fatal; the environment alone can fully configure a run.
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	var cfg AppConfig

	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Warn("Config file not readable, using environment only", slog.String("path", configPath))
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logger.Error("Failed to unmarshal config", err)
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	logger.Info("Configuration loaded successfully", slog.String("path", configPath))

	return defaultCfg, nil
}

func validateConfig(cfg *AppConfig) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if cfg.RunLock.Enabled && cfg.Redis.Addr == "" {
		return errors.New("run_lock.enabled requires redis.addr")
	}
	if cfg.GCS.Enabled && cfg.GCS.Bucket == "" {
		return errors.New("gcs.enabled requires gcs.bucket")
	}

	return nil
}

// LoadFromConfig loads .env, then the config file named by CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", slog.Any("error", err))
	}

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

// GetEnvOrDefaultAsUint64 returns the value of the env variable
// as uint64 or the default value if not set or invalid.
func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if strings.TrimSpace(val) != "" {
			return val
		}
	}
	return defaultVal
}

func defaultString(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}

func defaultUint64(val, fallback uint64) uint64 {
	if val == 0 {
		return fallback
	}
	return val
}
