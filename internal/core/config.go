package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 8080
	defaultBaseURL         = "https://ambitions.vercel.app.com"
	defaultImage           = "https://picsum.photos/seed/ambitious-og/1200/630"
	defaultGalleryInterval = 5 * time.Second
	defaultArchiveTimeout  = 15 * time.Second
	defaultSeedTimeout     = 10 * time.Second
	defaultCacheTTL        = 24 * time.Hour
	defaultUploadMaxWidth  = 1200
	defaultUploadMaxBytes  = 10 << 20
	defaultTicketWidth     = 900
	defaultTicketHeight    = 1200
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// Seed points at the static dataset used when storage holds no records.
// URL wins over Path; when both are empty the embedded dataset is used.
type Seed struct {
	URL     string        `yaml:"url"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

type Archive struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Cache configures the optional Redis cache for rendered tickets.
type Cache struct {
	URL string        `yaml:"url"`
	TTL time.Duration `yaml:"ttl"`
}

type Gallery struct {
	Interval time.Duration `yaml:"interval"`
}

type Upload struct {
	MaxWidth int   `yaml:"maxWidth"`
	MaxBytes int64 `yaml:"maxBytes"`
}

type Ticket struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ServiceConfig struct {
	Port         int      `yaml:"port"`
	BaseURL      string   `yaml:"baseUrl"`
	DefaultImage string   `yaml:"defaultImage"`
	Timezone     string   `yaml:"timezone"`
	Database     Database `yaml:"database"`
	Seed         Seed     `yaml:"seed"`
	Archive      Archive  `yaml:"archive"`
	Cache        Cache    `yaml:"cache"`
	Gallery      Gallery  `yaml:"gallery"`
	Upload       Upload   `yaml:"upload"`
	Ticket       Ticket   `yaml:"ticket"`

	location *time.Location
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// ApplyDefaults fills every zero value with the service default.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.DefaultImage == "" {
		c.DefaultImage = defaultImage
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		c.location = loc
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.ConnectionString == "" {
		c.Database.ConnectionString = "ambitions.db"
	}
	if c.Seed.Timeout == 0 {
		c.Seed.Timeout = defaultSeedTimeout
	}
	if c.Archive.Timeout == 0 {
		c.Archive.Timeout = defaultArchiveTimeout
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaultCacheTTL
	}
	if c.Gallery.Interval == 0 {
		c.Gallery.Interval = defaultGalleryInterval
	}
	if c.Upload.MaxWidth == 0 {
		c.Upload.MaxWidth = defaultUploadMaxWidth
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = defaultUploadMaxBytes
	}
	if c.Ticket.Width == 0 {
		c.Ticket.Width = defaultTicketWidth
	}
	if c.Ticket.Height == 0 {
		c.Ticket.Height = defaultTicketHeight
	}
}

// Validate ensures the configuration is usable after defaults were applied
func (c *ServiceConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	switch c.Database.Type {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.Type == "redis" && c.Database.ConnectionString == "" {
		return fmt.Errorf("database type redis requires a connectionString")
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	if c.Archive.Timeout < 0 || c.Seed.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Gallery.Interval < time.Second {
		return fmt.Errorf("gallery interval must be at least 1s, got %s", c.Gallery.Interval)
	}
	if c.Upload.MaxWidth < 0 || c.Upload.MaxBytes < 0 {
		return fmt.Errorf("upload limits must not be negative")
	}
	if c.Ticket.Width < 300 || c.Ticket.Height < 400 {
		return fmt.Errorf("ticket must be at least 300x400, got %dx%d", c.Ticket.Width, c.Ticket.Height)
	}
	return nil
}

// Location returns the timezone resolved by ApplyDefaults, falling back to UTC.
func (c *ServiceConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
