package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/SisyphusMD/wudwatch/internal/consts"
)

// Duration wraps time.Duration so YAML configs can use "5s" style values.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config describes one WUD instance to watch.
type Config struct {
	// Name is a user-friendly identifier for the instance; it shows up in
	// entity names and unique IDs.
	Name     string `yaml:"name"`
	Protocol string `yaml:"protocol"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// GithubToken is optional; when set, release-notes lookups send it as an
	// Authorization header to dodge the anonymous rate limit.
	GithubToken string   `yaml:"github_token"`
	Interval    Duration `yaml:"interval"`
}

// Load reads the config file at path, layering values in increasing
// precedence: defaults, YAML file, WUDWATCH_* environment variables.
// A missing file is fine as long as the environment fills in the host.
func Load(path string) (*Config, error) {
	// .env next to the working directory, if present. Absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Name:     consts.DefaultInstance,
		Protocol: consts.DefaultProtocol,
		Port:     consts.DefaultPort,
		Username: consts.DefaultUsername,
		Interval: Duration(5 * time.Second),
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WUDWATCH_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("WUDWATCH_PROTOCOL"); v != "" {
		cfg.Protocol = v
	}
	if v := os.Getenv("WUDWATCH_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("WUDWATCH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("WUDWATCH_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("WUDWATCH_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("WUDWATCH_GITHUB_TOKEN"); v != "" {
		cfg.GithubToken = v
	}
	if v := os.Getenv("WUDWATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Interval = Duration(d)
		}
	}
}

// Validate checks the fields no default can supply.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("config: host is required")
	}
	if c.Protocol != "http" && c.Protocol != "https" {
		return fmt.Errorf("config: protocol must be http or https, got %q", c.Protocol)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("config: interval must be positive")
	}
	return nil
}

// ContainersURL assembles the WUD containers endpoint from protocol, host
// and port.
func (c *Config) ContainersURL() string {
	return fmt.Sprintf("%s://%s:%d/api/containers", c.Protocol, c.Host, c.Port)
}
