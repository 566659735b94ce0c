// Package config loads judgment-scraper settings.
//
// Configuration hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (JUDGMENTS_*, e.g. JUDGMENTS_SMTP_PASSWORD)
//  3. Config file (--config, ./judgments.yaml or ~/.config/judgments/config.yaml)
//  4. Defaults
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by the config.
const EnvPrefix = "JUDGMENTS"

// Engines accepted by the engine setting.
const (
	EngineBrowser = "browser"
	EngineHTTP    = "http"
)

// Config is the effective configuration.
type Config struct {
	DBPath         string        `mapstructure:"db_path"`
	BaseURL        string        `mapstructure:"base_url"`
	DocType        string        `mapstructure:"doc_type"`
	MaxLinks       int           `mapstructure:"max_links"`
	Headless       bool          `mapstructure:"headless"`
	Engine         string        `mapstructure:"engine"`
	UserAgent      string        `mapstructure:"user_agent"`
	Concurrency    int           `mapstructure:"concurrency"`
	RatePerSecond  float64       `mapstructure:"rate_per_second"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	RespectRobots  bool          `mapstructure:"respect_robots"`
	InstallBrowser bool          `mapstructure:"install_browser"`
	OutDir         string        `mapstructure:"out_dir"`

	Log      LogConfig      `mapstructure:"log"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SMTPConfig holds mail settings.
type SMTPConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	To       []string `mapstructure:"to"`
	Subject  string   `mapstructure:"subject"`
	Body     string   `mapstructure:"body"`
}

// Enabled reports whether enough is set to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && len(c.To) > 0
}

// SMSConfig holds SMS gateway settings.
type SMSConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	To       string `mapstructure:"to"`
	Message  string `mapstructure:"message"`
}

// Enabled reports whether enough is set to send an SMS.
func (c SMSConfig) Enabled() bool {
	return c.APIKey != "" && c.To != ""
}

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	APIBase  string `mapstructure:"api_base"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Enabled reports whether enough is set to upload to Telegram.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

var defaults = map[string]interface{}{
	"db_path":         "~/.local/share/judgments/judgments.db",
	"base_url":        "https://indiankanoon.org",
	"doc_type":        "supremecourt",
	"max_links":       10,
	"headless":        true,
	"engine":          EngineBrowser,
	"user_agent":      "judgment-scraper/1.0 (github.com/lexwatch/judgment-scraper)",
	"concurrency":     1,
	"rate_per_second": 1.0,
	"fetch_timeout":   "2m",
	"idle_timeout":    "30s",
	"cache_ttl":       "1h",
	"respect_robots":  false,
	"install_browser": false,
	"out_dir":         ".",
	"log.level":       "info",
	"log.format":      "console",
	"smtp.host":       "smtp.gmail.com",
	"smtp.port":       587,
	"smtp.username":   "",
	"smtp.password":   "",
	"smtp.to":         []string{},
	"smtp.subject":    "Judgments export",
	"smtp.body":       "Please find the latest judgments attached.",
	"sms.endpoint":    "https://api.smsmobileapi.com/sendsms/",
	"sms.api_key":     "",
	"sms.to":          "",
	"sms.message":     "Your judgments export has been emailed.",

	"telegram.api_base":  "https://api.telegram.org/bot",
	"telegram.bot_token": "",
	"telegram.chat_id":   "",
}

// secrets are masked by WriteYAML.
var secrets = []string{"smtp.password", "sms.api_key", "telegram.bot_token"}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SearchPaths returns the config files tried, in order, when none is given.
func SearchPaths() []string {
	paths := []string{"judgments.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "judgments", "config.yaml"))
	}
	return paths
}

// ReadFile merges a config file into v. An explicit path must exist;
// otherwise the first existing SearchPaths entry is used, if any.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return nil
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// Load reads the config file into v and decodes and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode converts v into a validated Config.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects out-of-range settings.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxLinks < 1 || c.MaxLinks > 50 {
		errs = append(errs, fmt.Errorf("max_links must be between 1 and 50, got %d", c.MaxLinks))
	}
	if c.Engine != EngineBrowser && c.Engine != EngineHTTP {
		errs = append(errs, fmt.Errorf("engine must be %q or %q, got %q", EngineBrowser, EngineHTTP, c.Engine))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("rate_per_second must not be negative, got %v", c.RatePerSecond))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.IdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("idle_timeout must be positive, got %s", c.IdleTimeout))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// WriteYAML writes the effective settings of v as YAML. Secrets are masked
// unless showSecrets is set.
func WriteYAML(w io.Writer, v *viper.Viper, showSecrets bool) error {
	settings := v.AllSettings()
	if !showSecrets {
		for _, key := range secrets {
			maskKey(settings, strings.Split(key, "."))
		}
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func maskKey(m map[string]interface{}, path []string) {
	if len(path) == 1 {
		if s, ok := m[path[0]].(string); ok && s != "" {
			m[path[0]] = "********"
		}
		return
	}
	if sub, ok := m[path[0]].(map[string]interface{}); ok {
		maskKey(sub, path[1:])
	}
}

// WriteDefaultFile writes a commented default config to path. It refuses to
// overwrite an existing file.
func WriteDefaultFile(path string) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing config file: %w", closeErr)
		}
	}()

	header := "# judgment-scraper configuration\n" +
		"#\n" +
		"# Configuration hierarchy (highest to lowest priority):\n" +
		"#   1. CLI flags\n" +
		"#   2. Environment variables (" + EnvPrefix + "_*, e.g. " + EnvPrefix + "_SMTP_PASSWORD)\n" +
		"#   3. This config file\n" +
		"#   4. Built-in defaults\n\n"
	if _, err := io.WriteString(f, header); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	defaultsOnly := viper.New()
	for k, val := range defaults {
		defaultsOnly.SetDefault(k, val)
	}
	return WriteYAML(f, defaultsOnly, true)
}
