package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".config/jobgate"
	envPrefix  = "JG"

	KeyAccountID       = "account.id"
	KeyBaseURL         = "service.base_url"
	KeyRequestTimeout  = "service.request_timeout"
	KeyStaleAfter      = "admission.stale_after"
	KeyPollInterval    = "poll.interval"
	KeyStopConcurrency = "stop.concurrency"
	KeyPlansPath       = "plans.path"
	KeyLogLevel        = "log.level"
	KeySecretsBackend  = "secrets.backend"
	KeyToken           = "token"

	SecretsBackendFile = "file"
	SecretsBackendPass = "pass"
)

type Config struct {
	Dir             string
	AccountID       string
	BaseURL         string
	Token           string
	RequestTimeout  time.Duration
	StaleAfter      time.Duration
	PollInterval    time.Duration
	StopConcurrency int
	PlansPath       string
	SecretsDir      string
	SecretsBackend  string
	LogLevel        string
}

// Load reads ~/.config/jobgate/config.toml into cfg (a fresh viper when nil). JG_* environment
// variables override file values, for example JG_SERVICE_BASE_URL.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyRequestTimeout, "10s")
	cfg.SetDefault(KeyStaleAfter, "5s")
	cfg.SetDefault(KeyPollInterval, "10s")
	cfg.SetDefault(KeyStopConcurrency, 4)
	cfg.SetDefault(KeyPlansPath, filepath.Join(dir, "plans.toml"))
	cfg.SetDefault(KeyLogLevel, "warn")
	cfg.SetDefault(KeySecretsBackend, SecretsBackendFile)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	loaded := Config{
		Dir:             dir,
		AccountID:       strings.TrimSpace(cfg.GetString(KeyAccountID)),
		BaseURL:         strings.TrimSpace(cfg.GetString(KeyBaseURL)),
		Token:           strings.TrimSpace(cfg.GetString(KeyToken)),
		RequestTimeout:  cfg.GetDuration(KeyRequestTimeout),
		StaleAfter:      cfg.GetDuration(KeyStaleAfter),
		PollInterval:    cfg.GetDuration(KeyPollInterval),
		StopConcurrency: cfg.GetInt(KeyStopConcurrency),
		PlansPath:       cfg.GetString(KeyPlansPath),
		SecretsDir:      filepath.Join(dir, "secrets"),
		SecretsBackend:  strings.ToLower(strings.TrimSpace(cfg.GetString(KeySecretsBackend))),
		LogLevel:        cfg.GetString(KeyLogLevel),
	}

	if err := loaded.validate(); err != nil {
		return Config{}, err
	}

	return loaded, nil
}

func (c Config) validate() error {
	var problems []error
	if c.RequestTimeout <= 0 {
		problems = append(problems, fmt.Errorf("%s must be positive", KeyRequestTimeout))
	}
	if c.StaleAfter < 0 {
		problems = append(problems, fmt.Errorf("%s must not be negative", KeyStaleAfter))
	}
	if c.PollInterval <= 0 {
		problems = append(problems, fmt.Errorf("%s must be positive", KeyPollInterval))
	}
	if c.StopConcurrency < 1 {
		problems = append(problems, fmt.Errorf("%s must be at least 1", KeyStopConcurrency))
	}
	if strings.TrimSpace(c.PlansPath) == "" {
		problems = append(problems, fmt.Errorf("%s is empty", KeyPlansPath))
	}
	if c.SecretsBackend != SecretsBackendFile && c.SecretsBackend != SecretsBackendPass {
		problems = append(problems, fmt.Errorf("%s must be %q or %q, got %q", KeySecretsBackend, SecretsBackendFile, SecretsBackendPass, c.SecretsBackend))
	}

	if err := errors.Join(problems...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireService reports which settings are missing before any service call is attempted.
func (c Config) RequireService() error {
	var missing []string
	if c.AccountID == "" {
		missing = append(missing, KeyAccountID)
	}
	if c.BaseURL == "" {
		missing = append(missing, KeyBaseURL)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s (set in %s or via %s_* environment variables)",
			strings.Join(missing, ", "), filepath.Join(c.Dir, configName+"."+configType), envPrefix)
	}
	return nil
}
