package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/va6996/deskagent/bond"
)

// Config aggregates all application configuration
type Config struct {
	AI       AIConfig       `yaml:"ai"`
	Database DatabaseConfig `yaml:"database"`
	Maps     MapsConfig     `yaml:"maps"`
	Weather  WeatherConfig  `yaml:"weather"`
	Bond     BondConfig     `yaml:"bond"`
	Log      LogConfig      `yaml:"log"`
}

type AIConfig struct {
	Plugin string       `yaml:"plugin" env:"AI_PLUGIN" env-default:"gemini"`
	Gemini GeminiConfig `yaml:"gemini"`
	Ollama OllamaConfig `yaml:"ollama"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
}

type OllamaConfig struct {
	Model   string `yaml:"model" env:"OLLAMA_MODEL" env-default:"qwen3:4b"`
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL" env-default:"http://localhost:11434"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"DB_DSN" env-default:"deskagent.db"`
}

// MapsConfig enables Google geocoding and time zone lookups when APIKey is set.
type MapsConfig struct {
	APIKey string `yaml:"api_key" env:"GOOGLE_MAPS_API_KEY"`
}

type WeatherConfig struct {
	BaseURL          string `yaml:"base_url" env:"WEATHER_BASE_URL" env-default:"https://api.open-meteo.com/v1"`
	GeocodingBaseURL string `yaml:"geocoding_base_url" env:"WEATHER_GEOCODING_BASE_URL" env-default:"https://geocoding-api.open-meteo.com/v1"`
	CacheTTLSeconds  int    `yaml:"cache_ttl_seconds" env:"WEATHER_CACHE_TTL_SECONDS" env-default:"600"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" env:"WEATHER_TIMEOUT_SECONDS" env-default:"15"`
}

// BondConfig controls the Treasury pricing tool.
type BondConfig struct {
	// SettlementDate pins every valuation to one date (YYYY-MM-DD). When empty
	// the tool uses T+1 from the current date.
	SettlementDate  string `yaml:"settlement_date" env:"BOND_SETTLEMENT_DATE"`
	CouponFrequency int    `yaml:"coupon_frequency" env:"BOND_COUPON_FREQUENCY" env-default:"2"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit config file path. A missing or unreadable
// file falls back to environment variables only.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise only fail on first use.
func (c *Config) Validate() error {
	if err := bond.Frequency(c.Bond.CouponFrequency).Validate(); err != nil {
		return fmt.Errorf("bond.coupon_frequency: %w", err)
	}
	if c.Bond.SettlementDate != "" {
		if _, err := bond.ParseDate(c.Bond.SettlementDate); err != nil {
			return fmt.Errorf("bond.settlement_date: %w", err)
		}
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	return nil
}
