/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the Gemini API
credential, and the delays used by the simulated backend collaborators.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string

	// Generative AI Settings
	GeminiAPIKey string
	GeminiModel  string

	// Simulation Settings. Login, signup and skill persistence are stand-ins
	// that resolve after a fixed delay; the expert reply is scripted.
	SimulatedLatency time.Duration
	ExpertReplyDelay time.Duration
}

// LoadConfig reads and parses the application configuration from environment variables.
// A .env file in the working directory is loaded first when present. It provides
// default values for each configuration item and performs necessary type
// conversions and validation.
func LoadConfig() (*AppConfig, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if cfg.Environment == "development" {
		if jwtSecret == "" {
			jwtSecret = "your_default_insecure_secret_key_change_me"
		}
	} else {
		if jwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
	}
	cfg.JWTSecret = jwtSecret

	// --- Generative AI Settings ---
	// The one real external credential of the system, read once at startup.
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required to reach the generative model")
	}

	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-flash"
	}

	// --- Simulation Settings ---
	cfg.SimulatedLatency, err = durationMillis("SIMULATED_LATENCY_MS", 1500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg.ExpertReplyDelay, err = durationMillis("EXPERT_REPLY_DELAY_MS", 1500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// durationMillis reads an integer millisecond value from the environment,
// falling back to the given default when the variable is unset.
func durationMillis(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}

	millis, err := strconv.Atoi(raw)
	if err != nil || millis < 0 {
		return 0, fmt.Errorf("invalid %s environment variable: %q", name, raw)
	}

	return time.Duration(millis) * time.Millisecond, nil
}
