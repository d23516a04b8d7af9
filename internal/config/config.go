package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
)

// EnvPrefix prefixes every environment override, e.g. MACROLENS_FRED_API_KEY.
const EnvPrefix = "MACROLENS"

// Global configuration structure.
type Global struct {
	FREDAPIKey       string `mapstructure:"fred_api_key" yaml:"fred_api_key"`
	FREDBaseURL      string `mapstructure:"fred_base_url" yaml:"fred_base_url" validate:"required,url"`
	WorldBankBaseURL string `mapstructure:"worldbank_base_url" yaml:"worldbank_base_url" validate:"required,url"`
	FXBaseURL        string `mapstructure:"fx_base_url" yaml:"fx_base_url" validate:"required,url"`

	// HTTP/Retry configuration
	HTTPTimeoutSec    int     `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec" validate:"gte=1,lte=600"`
	RetryMaxAttempts  int     `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts" validate:"gte=1,lte=10"`
	RetryBaseDelayMs  int     `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms" validate:"gte=0"`
	RetryMaxDelayMs   int     `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms" validate:"gtefield=RetryBaseDelayMs"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`

	ForecastHorizon int    `mapstructure:"forecast_horizon" yaml:"forecast_horizon" validate:"gte=0,lte=1200"`
	ForecastStep    string `mapstructure:"forecast_step" yaml:"forecast_step" validate:"forecast_step"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	LogLevel        string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=panic fatal error warn warning info debug trace"`
}

// Keys lists every configuration key in display order.
var Keys = []string{
	"fred_api_key",
	"fred_base_url",
	"worldbank_base_url",
	"fx_base_url",
	"http_timeout_sec",
	"retry_max_attempts",
	"retry_base_delay_ms",
	"retry_max_delay_ms",
	"requests_per_second",
	"forecast_horizon",
	"forecast_step",
	"output_dir",
	"log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fred_api_key", "")
	v.SetDefault("fred_base_url", "https://api.stlouisfed.org")
	v.SetDefault("worldbank_base_url", "https://api.worldbank.org")
	v.SetDefault("fx_base_url", "https://api.exchangerate.host")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 15)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("requests_per_second", 5.0)

	v.SetDefault("forecast_horizon", 12)
	v.SetDefault("forecast_step", "month")
	v.SetDefault("output_dir", ".")
	v.SetDefault("log_level", "info")
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Dir returns ~/.macrolens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".macrolens"), nil
}

// Path resolves the config file location; cfgFile wins when set.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.macrolens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	// The file may hold an API key.
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read first and never overrides variables already set.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.ForecastStep = strings.ToLower(strings.TrimSpace(c.ForecastStep))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("forecast_step", func(fl validator.FieldLevel) bool {
		_, err := forecast.ParseStep(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field ranges and formats.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Global) HTTPTimeout() time.Duration { return time.Duration(c.HTTPTimeoutSec) * time.Second }

// RetryBaseDelay returns the first backoff delay.
func (c *Global) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

// RetryMaxDelay caps the backoff delay.
func (c *Global) RetryMaxDelay() time.Duration {
	return time.Duration(c.RetryMaxDelayMs) * time.Millisecond
}

// Redacted returns a copy safe to print.
func (c *Global) Redacted() *Global {
	cp := *c
	if cp.FREDAPIKey != "" {
		cp.FREDAPIKey = mask(cp.FREDAPIKey)
	}
	return &cp
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
