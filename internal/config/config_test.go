package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired sets every required variable; t.Setenv restores them after the test
func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("DB_PASSWORD", "test_db_password")
}

func clearOptional(t *testing.T) {
	for _, key := range []string{
		"API_URL", "API_CONTRACT", "API_TIMEOUT", "MOCK_DELAY", "RATE_LIMIT_PER_MINUTE",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_SSLMODE",
	} {
		t.Setenv(key, "")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
			SSLMode:  "require",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require"
	assert.Equal(t, expected, dsn)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "missing bot token", missing: "BOT_TOKEN"},
		{name: "missing supabase url", missing: "SUPABASE_URL"},
		{name: "missing anon key", missing: "SUPABASE_ANON_KEY"},
		{name: "missing db password", missing: "DB_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOptional(t)
			setRequired(t)
			t.Setenv(tt.missing, "")

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearOptional(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, ContractStandard, cfg.API.Contract)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.API.MockDelay)
	assert.Equal(t, 20, cfg.RateLimitPerMinute)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.Name)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_Overrides(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("API_CONTRACT", "v1")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("MOCK_DELAY", "0s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, ContractV1, cfg.API.Contract)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Duration(0), cfg.API.MockDelay)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown contract", key: "API_CONTRACT", value: "v2"},
		{name: "bad timeout", key: "API_TIMEOUT", value: "soon"},
		{name: "negative mock delay", key: "MOCK_DELAY", value: "-1s"},
		{name: "bad rate limit", key: "RATE_LIMIT_PER_MINUTE", value: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOptional(t)
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadSupabase(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "")

	cfg, err := LoadSupabase()
	assert.Error(t, err)
	assert.Nil(t, cfg)

	t.Setenv("SUPABASE_ANON_KEY", "anon")
	cfg, err = LoadSupabase()
	require.NoError(t, err)
	assert.Equal(t, "anon", cfg.AnonKey)
}
