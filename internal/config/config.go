package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// API contracts understood by the definition client
const (
	ContractStandard = "standard"
	ContractV1       = "v1"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	API      APIConfig
	Supabase SupabaseConfig
	Database DatabaseConfig

	// RateLimitPerMinute caps remote API calls per chat; 0 disables the limit
	RateLimitPerMinute int
}

// APIConfig holds dictionary backend settings
type APIConfig struct {
	BaseURL   string
	Contract  string
	Timeout   time.Duration
	MockDelay time.Duration
}

// SupabaseConfig holds Supabase Auth settings
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	api, err := LoadAPI()
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "20"))
	if err != nil || rateLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a non-negative integer")
	}

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		API:      *api,
		Supabase: SupabaseConfig{
			URL:     os.Getenv("SUPABASE_URL"),
			AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "postgres"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RateLimitPerMinute: rateLimit,
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Supabase.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.Supabase.AnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// LoadAPI reads only the dictionary backend settings. The CLI uses it
// directly since it needs neither the bot nor the database.
func LoadAPI() (*APIConfig, error) {
	_ = godotenv.Load()

	timeout, err := getDuration("API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	mockDelay, err := getDuration("MOCK_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	api := &APIConfig{
		BaseURL:   getEnv("API_URL", "http://localhost:8000"),
		Contract:  getEnv("API_CONTRACT", ContractStandard),
		Timeout:   timeout,
		MockDelay: mockDelay,
	}

	if api.Contract != ContractStandard && api.Contract != ContractV1 {
		return nil, fmt.Errorf("API_CONTRACT must be %q or %q, got %q", ContractStandard, ContractV1, api.Contract)
	}

	return api, nil
}

// LoadSupabase reads only the Supabase Auth settings
func LoadSupabase() (*SupabaseConfig, error) {
	_ = godotenv.Load()

	cfg := &SupabaseConfig{
		URL:     os.Getenv("SUPABASE_URL"),
		AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration such as 30s", key)
	}
	return d, nil
}
