package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds the cache windows and fetch timeout for one source.
type ProviderConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	FreshWindow time.Duration `yaml:"fresh_window"`
	StaleWindow time.Duration `yaml:"stale_window"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Providers struct {
		Spot      ProviderConfig `yaml:"spot"`
		Inventory ProviderConfig `yaml:"inventory"`
		ETF       ProviderConfig `yaml:"etf"`
		Margins   ProviderConfig `yaml:"margins"`
		Premium   ProviderConfig `yaml:"premium"`
		Dealers   ProviderConfig `yaml:"dealers"`
		News      ProviderConfig `yaml:"news"`
	} `yaml:"providers"`
	Yahoo struct {
		BaseURL    string   `yaml:"base_url"`
		SpotSymbol string   `yaml:"spot_symbol"`
		ETFSymbols []string `yaml:"etf_symbols"`
	} `yaml:"yahoo"`
	Comex struct {
		ReportURL string `yaml:"report_url"`
	} `yaml:"comex"`
	CME struct {
		MarginsURL string `yaml:"margins_url"`
	} `yaml:"cme"`
	News struct {
		PageURL  string `yaml:"page_url"`
		MaxItems int    `yaml:"max_items"`
	} `yaml:"news"`
	OpenAI struct {
		Enabled bool          `yaml:"enabled"`
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"openai"`
	Snapshot struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"snapshot"`
	History struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"history"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"events"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Snapshot.Addr = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.History.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Events.Topic = v
	}

	return c, nil
}

// applyDefaults fills the windows and endpoints that rarely need overriding.
func (c *Config) applyDefaults() {
	def := func(p *ProviderConfig, timeout, fresh, stale time.Duration) {
		if p.Timeout == 0 {
			p.Timeout = timeout
		}
		if p.FreshWindow == 0 {
			p.FreshWindow = fresh
		}
		if p.StaleWindow == 0 {
			p.StaleWindow = stale
		}
	}
	// Fresh windows track how often the underlying data actually changes:
	// the spot price every few minutes, the vault report once per day.
	def(&c.Providers.Spot, 10*time.Second, 5*time.Minute, 24*time.Hour)
	def(&c.Providers.Inventory, 30*time.Second, time.Hour, 24*time.Hour)
	def(&c.Providers.ETF, 10*time.Second, 5*time.Minute, 24*time.Hour)
	def(&c.Providers.Margins, 10*time.Second, time.Hour, 24*time.Hour)
	def(&c.Providers.Premium, 10*time.Second, 15*time.Minute, 24*time.Hour)
	def(&c.Providers.Dealers, 10*time.Second, 15*time.Minute, 24*time.Hour)
	def(&c.Providers.News, 10*time.Second, 15*time.Minute, 24*time.Hour)

	if c.Yahoo.BaseURL == "" {
		c.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Yahoo.SpotSymbol == "" {
		c.Yahoo.SpotSymbol = "SI=F"
	}
	if len(c.Yahoo.ETFSymbols) == 0 {
		c.Yahoo.ETFSymbols = []string{"SLV", "SIVR"}
	}
	if c.Comex.ReportURL == "" {
		c.Comex.ReportURL = "https://www.cmegroup.com/delivery_reports/Silver_stocks.xls"
	}
	if c.CME.MarginsURL == "" {
		c.CME.MarginsURL = "https://www.cmegroup.com/markets/metals/precious/silver.margins.html"
	}
	if c.News.PageURL == "" {
		c.News.PageURL = "https://www.kitco.com/news/silver/"
	}
	if c.News.MaxItems == 0 {
		c.News.MaxItems = 8
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4.1-mini"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 30 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if len(c.Yahoo.ETFSymbols) != 2 {
		return fmt.Errorf("yahoo.etf_symbols must name exactly two funds")
	}
	if c.OpenAI.Enabled && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required when openai.enabled")
	}
	if c.Snapshot.Enabled && c.Snapshot.Addr == "" {
		return fmt.Errorf("snapshot.addr is required when snapshot.enabled")
	}
	if c.History.Enabled && c.History.Host == "" {
		return fmt.Errorf("history.host is required when history.enabled")
	}
	if c.Events.Enabled {
		if len(c.Events.Brokers) == 0 {
			return fmt.Errorf("events.brokers cannot be empty when events.enabled")
		}
		if c.Events.Topic == "" {
			return fmt.Errorf("events.topic is required when events.enabled")
		}
	}
	return nil
}
