package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server Configuration
	Port       string
	AdminToken string

	// Database Configuration
	DatabaseURL string

	// Verification Engine Configuration
	VerifierURL    string
	VerifierAPIKey string
	UseMockEngine  bool

	// Trusted reporters seeded at boot (comma-separated identifiers)
	TrustedReporters []string
}

func Load() *Config {
	return &Config{
		// Server
		Port:       getEnv("PORT", "8080"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),

		// Database (empty means in-memory SQLite)
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Verification engine
		VerifierURL:    os.Getenv("VERIFIER_URL"),
		VerifierAPIKey: os.Getenv("VERIFIER_API_KEY"),
		UseMockEngine:  getBoolEnv("USE_MOCK_ENGINE", true),

		// Reporters
		TrustedReporters: getSliceEnv("TRUSTED_REPORTERS", nil),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fallback
		}
		return boolVal
	}
	return fallback
}

func getSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, v := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
