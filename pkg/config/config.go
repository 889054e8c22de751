// Package config provides configuration management for FaceWallet.
// It loads configuration from YAML files with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all FaceWallet configuration.
type Config struct {
	Capture    CaptureConfig    `yaml:"capture"`
	Matching   MatchingConfig   `yaml:"matching"`
	Enrollment EnrollmentConfig `yaml:"enrollment"`
	Auth       AuthConfig       `yaml:"auth"`
	OTP        OTPConfig        `yaml:"otp"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CaptureConfig holds frame sampling settings.
type CaptureConfig struct {
	FrameDir   string `yaml:"frame_dir"`
	IntervalMS int    `yaml:"interval_ms"`
	ModelPath  string `yaml:"model_path"`
}

// MatchingConfig holds face matching settings.
type MatchingConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// EnrollmentConfig holds enrollment scan settings.
type EnrollmentConfig struct {
	ProgressStep int `yaml:"progress_step"`
}

// AuthConfig holds scan session settings.
type AuthConfig struct {
	MaxFailures   int `yaml:"max_failures"`
	RetryLimit    int `yaml:"retry_limit"`
	SettleDelayMS int `yaml:"settle_delay_ms"`
}

// OTPConfig holds one-time-code settings.
type OTPConfig struct {
	TTLSeconds        int    `yaml:"ttl_seconds"`
	ResendWaitSeconds int    `yaml:"resend_wait_seconds"`
	Store             string `yaml:"store"` // "memory" or "redis"
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	KeyFile string `yaml:"key_file"`
}

// RedisConfig holds the optional Redis connection for the OTP store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DeliveryConfig holds OTP delivery settings.
type DeliveryConfig struct {
	Channel  string `yaml:"channel"` // "log" or "smtp"
	SMTPAddr string `yaml:"smtp_addr"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local/share/facewallet")
	return &Config{
		Capture: CaptureConfig{
			FrameDir:   filepath.Join(dataDir, "frames"),
			IntervalMS: 100,
			ModelPath:  filepath.Join(dataDir, "models"),
		},
		Matching: MatchingConfig{
			Threshold: 0.6,
		},
		Enrollment: EnrollmentConfig{
			ProgressStep: 20,
		},
		Auth: AuthConfig{
			MaxFailures:   60,
			RetryLimit:    2,
			SettleDelayMS: 1000,
		},
		OTP: OTPConfig{
			TTLSeconds:        300,
			ResendWaitSeconds: 30,
			Store:             "memory",
		},
		Storage: StorageConfig{
			DataDir: dataDir,
			KeyFile: filepath.Join(dataDir, "wallet.key"),
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Delivery: DeliveryConfig{
			Channel: "log",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "facewallet.log"),
		},
	}
}

// Load loads configuration from the specified file.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, err
	}

	return config, nil
}

// LoadDefault tries to load configuration from default locations.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat("/etc/facewallet/facewallet.yaml"); err == nil {
		return Load("/etc/facewallet/facewallet.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}

	userConfig := filepath.Join(homeDir, ".config/facewallet/facewallet.yaml")
	if _, err := os.Stat(userConfig); err == nil {
		return Load(userConfig)
	}

	return DefaultConfig(), nil
}

// ExpandPath expands ~ and environment variables in a path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// ExpandPaths expands all paths in the configuration.
func (c *Config) ExpandPaths() {
	c.Capture.FrameDir = ExpandPath(c.Capture.FrameDir)
	c.Capture.ModelPath = ExpandPath(c.Capture.ModelPath)
	c.Storage.DataDir = ExpandPath(c.Storage.DataDir)
	c.Storage.KeyFile = ExpandPath(c.Storage.KeyFile)
	c.Logging.File = ExpandPath(c.Logging.File)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Capture.IntervalMS <= 0 {
		return fmt.Errorf("interval_ms must be positive, got %d", c.Capture.IntervalMS)
	}

	if c.Matching.Threshold <= 0 || c.Matching.Threshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1], got %f", c.Matching.Threshold)
	}

	if c.Enrollment.ProgressStep <= 0 || c.Enrollment.ProgressStep > 100 {
		return fmt.Errorf("progress_step must be in (0, 100], got %d", c.Enrollment.ProgressStep)
	}

	if c.Auth.MaxFailures <= 0 {
		return fmt.Errorf("max_failures must be positive, got %d", c.Auth.MaxFailures)
	}
	if c.Auth.RetryLimit <= 0 {
		return fmt.Errorf("retry_limit must be positive, got %d", c.Auth.RetryLimit)
	}

	if c.OTP.TTLSeconds <= 0 {
		return fmt.Errorf("ttl_seconds must be positive, got %d", c.OTP.TTLSeconds)
	}
	if c.OTP.ResendWaitSeconds <= 0 {
		return fmt.Errorf("resend_wait_seconds must be positive, got %d", c.OTP.ResendWaitSeconds)
	}
	if c.OTP.Store != "memory" && c.OTP.Store != "redis" {
		return fmt.Errorf("otp store must be memory or redis, got %s", c.OTP.Store)
	}

	if c.Delivery.Channel != "log" && c.Delivery.Channel != "smtp" {
		return fmt.Errorf("delivery channel must be log or smtp, got %s", c.Delivery.Channel)
	}
	if c.Delivery.Channel == "smtp" && (c.Delivery.SMTPAddr == "" || c.Delivery.From == "") {
		return fmt.Errorf("smtp delivery requires smtp_addr and from")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	return nil
}

// EnsureDirectories creates necessary directories for storage and logging.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.DataDir, 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	identitiesDir := filepath.Join(c.Storage.DataDir, "identities")
	if err := os.MkdirAll(identitiesDir, 0700); err != nil {
		return fmt.Errorf("failed to create identities directory: %w", err)
	}

	if err := os.MkdirAll(c.Capture.ModelPath, 0755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	return nil
}

// IdentitiesDir returns the directory for identity records.
func (c *Config) IdentitiesDir() string {
	return filepath.Join(c.Storage.DataDir, "identities")
}

// LedgerFile returns the path of the transaction ledger.
func (c *Config) LedgerFile() string {
	return filepath.Join(c.Storage.DataDir, "ledger.jsonl")
}

// SampleInterval returns the frame cadence as a duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.Capture.IntervalMS) * time.Millisecond
}

// SettleDelay returns the post-match settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Auth.SettleDelayMS) * time.Millisecond
}

// OTPTTL returns the code validity window as a duration.
func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTP.TTLSeconds) * time.Second
}

// ResendWait returns the resend countdown as a duration.
func (c *Config) ResendWait() time.Duration {
	return time.Duration(c.OTP.ResendWaitSeconds) * time.Second
}
