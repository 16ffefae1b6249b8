// Package config loads the linking service configuration.
package config

import (
	"fmt"
	"time"

	infraconfig "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/config"
	infragin "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/gin"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/profiling"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/gaps"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/projects"
)

// Config holds all configuration for the linking service and CLI.
type Config struct {
	Service    ServiceConfig       `yaml:"service"`
	OnCrawl    OnCrawlConfig       `yaml:"oncrawl"`
	Thresholds ThresholdsConfig    `yaml:"thresholds"`
	Projects   ProjectsConfig      `yaml:"projects"`
	Auth       AuthConfig          `yaml:"auth"`
	Logging    LoggingConfig       `yaml:"logging"`
	CORS       infragin.CORSConfig `yaml:"cors"`
	Profiling  profiling.Config    `yaml:"profiling"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name         string `yaml:"name"`
	Version      string `env:"APP_VERSION"         yaml:"version"`
	Port         int    `env:"LINKING_PORT"        yaml:"port"`
	Debug        bool   `env:"LINKING_DEBUG"       yaml:"debug"`
	DefaultLimit int    `yaml:"default_limit"`
	MaxLimit     int    `env:"LINKING_MAX_LIMIT"   yaml:"max_limit"`
	// MaxPageLimit caps the pass-through page listing endpoints.
	MaxPageLimit int `yaml:"max_page_limit"`
}

// OnCrawlConfig holds the upstream Data API settings.
type OnCrawlConfig struct {
	BaseURL  string        `env:"ONCRAWL_BASE_URL"  yaml:"base_url"`
	APIToken string        `env:"ONCRAWL_API_TOKEN" yaml:"api_token"`
	Timeout  time.Duration `yaml:"timeout"`
	// RequestsPerSecond paces calls to stay under the account rate limit.
	RequestsPerSecond float64       `env:"ONCRAWL_RPS" yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	BreakerFailures   int           `yaml:"breaker_failures"`
	BreakerTimeout    time.Duration `yaml:"breaker_timeout"`
}

// ThresholdsConfig holds the gap classification bounds.
type ThresholdsConfig struct {
	MaxInlinks int `env:"LINKING_MAX_INLINKS" yaml:"max_inlinks"`
	MinDepth   int `env:"LINKING_MIN_DEPTH"   yaml:"min_depth"`
}

// ProjectsConfig maps project keys to crawls.
type ProjectsConfig struct {
	Active          string                   `env:"LINKING_ACTIVE_PROJECT" yaml:"active"`
	Items           map[string]ProjectConfig `yaml:"items"`
	ExcludedDomains []string                 `yaml:"excluded_domains"`
}

// ProjectConfig describes one configured project.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	CrawlID     string `yaml:"crawl_id"`
	Description string `yaml:"description"`
}

// AuthConfig enables JWT on /api/v1 when a secret is set.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "internal-linking"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8094
	}
	if cfg.Service.DefaultLimit == 0 {
		cfg.Service.DefaultLimit = 100
	}
	if cfg.Service.MaxLimit == 0 {
		cfg.Service.MaxLimit = 5000
	}
	if cfg.Service.MaxPageLimit == 0 {
		cfg.Service.MaxPageLimit = 1000
	}

	if cfg.OnCrawl.BaseURL == "" {
		cfg.OnCrawl.BaseURL = "https://app.oncrawl.com/api/v2"
	}
	if cfg.OnCrawl.Timeout == 0 {
		cfg.OnCrawl.Timeout = 60 * time.Second
	}
	if cfg.OnCrawl.RequestsPerSecond == 0 {
		cfg.OnCrawl.RequestsPerSecond = 5
	}
	if cfg.OnCrawl.Burst == 0 {
		cfg.OnCrawl.Burst = 10
	}
	if cfg.OnCrawl.BreakerFailures == 0 {
		cfg.OnCrawl.BreakerFailures = 5
	}
	if cfg.OnCrawl.BreakerTimeout == 0 {
		cfg.OnCrawl.BreakerTimeout = 30 * time.Second
	}

	if cfg.Thresholds.MaxInlinks == 0 {
		cfg.Thresholds.MaxInlinks = 3
	}
	if cfg.Thresholds.MinDepth == 0 {
		cfg.Thresholds.MinDepth = 4
	}

	if len(cfg.Projects.Items) == 0 {
		cfg.Projects.Items = defaultProjects()
		if cfg.Projects.Active == "" {
			cfg.Projects.Active = "square_global"
		}
	}
	if cfg.Projects.ExcludedDomains == nil {
		cfg.Projects.ExcludedDomains = []string{"community.squareup.com"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if !cfg.CORS.Enabled && len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.Enabled = true
	}

	cfg.Profiling.SetDefaults()
}

func defaultProjects() map[string]ProjectConfig {
	return map[string]ProjectConfig{
		"seller_community": {
			Name:        "Seller Community",
			CrawlID:     "699a1244ff7a69a72490927e",
			Description: "Community forums",
		},
		"square_global": {
			Name:        "Square Global",
			CrawlID:     "699eba1335800fd188b68bcc",
			Description: "Main Square website",
		},
		"square_us_en": {
			Name:        "Square US-EN",
			CrawlID:     "67ae414d8104eed6fb0e4d92",
			Description: "US English site (archived)",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("service.max_limit", c.Service.MaxLimit); err != nil {
		return err
	}
	if c.Service.DefaultLimit < 1 || c.Service.DefaultLimit > c.Service.MaxLimit {
		return &infraconfig.ValidationError{
			Field:   "service.default_limit",
			Message: fmt.Sprintf("must be between 1 and %d", c.Service.MaxLimit),
		}
	}
	if err := infraconfig.ValidateRequired("oncrawl.base_url", c.OnCrawl.BaseURL); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("thresholds.max_inlinks", c.Thresholds.MaxInlinks); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("thresholds.min_depth", c.Thresholds.MinDepth); err != nil {
		return err
	}
	if c.Projects.Active != "" {
		if _, ok := c.Projects.Items[c.Projects.Active]; !ok {
			return &infraconfig.ValidationError{
				Field:   "projects.active",
				Message: fmt.Sprintf("unknown project %q", c.Projects.Active),
			}
		}
	}
	for key, p := range c.Projects.Items {
		if err := infraconfig.ValidateRequired("projects.items."+key+".crawl_id", p.CrawlID); err != nil {
			return err
		}
	}
	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return infraconfig.ValidateLogFormat(c.Logging.Format)
}

// ClientConfig returns the upstream client settings.
func (c *Config) ClientConfig() oncrawl.Config {
	return oncrawl.Config{
		BaseURL:           c.OnCrawl.BaseURL,
		APIToken:          c.OnCrawl.APIToken,
		Timeout:           c.OnCrawl.Timeout,
		RequestsPerSecond: c.OnCrawl.RequestsPerSecond,
		Burst:             c.OnCrawl.Burst,
		BreakerFailures:   c.OnCrawl.BreakerFailures,
		BreakerTimeout:    c.OnCrawl.BreakerTimeout,
	}
}

// GapThresholds returns the classification bounds.
func (c *Config) GapThresholds() gaps.Thresholds {
	return gaps.Thresholds{MaxInlinks: c.Thresholds.MaxInlinks, MinDepth: c.Thresholds.MinDepth}
}

// ProjectRegistry builds the project registry from the projects section.
func (c *Config) ProjectRegistry() (*projects.Registry, error) {
	items := make(map[string]projects.Project, len(c.Projects.Items))
	for key, p := range c.Projects.Items {
		items[key] = projects.Project{Name: p.Name, CrawlID: p.CrawlID, Description: p.Description}
	}
	return projects.NewRegistry(items, c.Projects.Active, c.Projects.ExcludedDomains)
}
