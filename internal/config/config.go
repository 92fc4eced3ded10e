package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string { return d.Time.Format(dateLayout) }

type Season struct {
	StartDate      Date  `yaml:"start_date"`
	EndDate        *Date `yaml:"end_date"`
	GamesPerPlayer int   `yaml:"games_per_player"`
}

type Config struct {
	Season   Season   `yaml:"season"`
	Players  []string `yaml:"players"`
	Strategy string   `yaml:"strategy"`
	Database string   `yaml:"database"`
	LogLevel string   `yaml:"log_level"`
}

// HasRoster reports whether the config lists players itself rather than
// relying on the database for them.
func (c *Config) HasRoster() bool {
	return len(c.Players) > 0
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for i, p := range cfg.Players {
		cfg.Players[i] = strings.TrimSpace(p)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if c.Season.StartDate.Time.IsZero() {
		return fmt.Errorf("season start_date is required")
	}
	if c.Season.EndDate != nil && c.Season.EndDate.Time.Before(c.Season.StartDate.Time) {
		return fmt.Errorf("end date %s must not be before start date %s", c.Season.EndDate, c.Season.StartDate)
	}

	if c.Season.GamesPerPlayer < 0 {
		return fmt.Errorf("games_per_player must not be negative, got %d", c.Season.GamesPerPlayer)
	}

	if !c.HasRoster() && c.Database == "" {
		return fmt.Errorf("either players or database is required")
	}

	// Names are matched case-insensitively everywhere else, so they must be
	// unique that way too.
	seen := make(map[string]string)
	for _, p := range c.Players {
		if p == "" {
			return fmt.Errorf("player names must not be empty")
		}
		key := strings.ToLower(p)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("player %q is listed twice (as %q)", p, prev)
		}
		seen[key] = p
	}
	if c.HasRoster() && len(c.Players) < 2 {
		return fmt.Errorf("at least 2 players are required, got %d", len(c.Players))
	}

	return nil
}
