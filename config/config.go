package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LLAMAID_BACKEND_MODEL.
const EnvPrefix = "LLAMAID"

// LoadConfig builds the configuration from defaults, an optional YAML file, LLAMAID_*
// environment variables and explicitly set command line flags, in increasing precedence.
// configFile may be empty. flags may be nil.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("listen"); f != nil {
			if err := v.BindPFlag("listen_address", f); err != nil {
				return nil, fmt.Errorf("error binding flag: %w", err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&configuration); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_address", DefaultListenAddress)
	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("backend.generate_path", DefaultGeneratePath)
	v.SetDefault("backend.model", DefaultModel)
	v.SetDefault("backend.timeout", DefaultTimeout)
	v.SetDefault("system_preamble", DefaultSystemPreamble)
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("concurrency.max_in_flight", 0)
	v.SetDefault("concurrency.wait_timeout", DefaultWaitTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("presets", DefaultPresets)
}

func validate(c *Config) error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return errors.New("listen_address is required")
	}

	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.url must be an absolute http(s) URL, got %q", c.Backend.URL)
	}

	c.Backend.GeneratePath = strings.TrimSpace(c.Backend.GeneratePath)
	if c.Backend.GeneratePath == "" {
		c.Backend.GeneratePath = DefaultGeneratePath
	}
	if !strings.HasPrefix(c.Backend.GeneratePath, "/") {
		c.Backend.GeneratePath = "/" + c.Backend.GeneratePath
	}

	c.Backend.Model = strings.TrimSpace(c.Backend.Model)
	if c.Backend.Model == "" {
		return errors.New("backend.model is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %s", c.Backend.Timeout)
	}

	if c.Concurrency.MaxInFlight < 0 {
		return fmt.Errorf("concurrency.max_in_flight must not be negative, got %d", c.Concurrency.MaxInFlight)
	}
	if c.Concurrency.WaitTimeout <= 0 {
		c.Concurrency.WaitTimeout = DefaultWaitTimeout
	}

	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"*"}
	}
	for i, o := range c.CORS.AllowOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("cors.allow_origins entries must be \"*\" or start with http:// or https://, got %q", o)
		}
		c.CORS.AllowOrigins[i] = o
	}
	return nil
}
