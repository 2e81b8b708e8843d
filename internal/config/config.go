package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultSystemInstruction = "Anda adalah asisten belajar bahasa inggris, koreksi kata atau kalimat saya"

type Config struct {
	// Server
	Port      string
	Env       string
	Debug     bool
	StaticDir string

	// CORS
	CORSOrigin string

	// Gemini AI
	GoogleAPIKey         string
	GeminiModel          string
	GeminiTemperature    float32
	GeminiConcurrentReqs int
	SystemInstruction    string

	// Limits
	ChatRateLimit      int
	SessionIdleTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "3000"),
		Env:                  getEnvOrDefault("ENV", "development"),
		Debug:                getEnvAsBoolOrDefault("DEBUG", false),
		StaticDir:            getEnvOrDefault("STATIC_DIR", "./public"),
		CORSOrigin:           getEnvOrDefault("CORS_ORIGIN", "*"),
		GoogleAPIKey:         mustGetEnv("GOOGLE_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTemperature:    float32(getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.9)),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		SystemInstruction:    getEnvOrDefault("SYSTEM_INSTRUCTION", defaultSystemInstruction),
		ChatRateLimit:        getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		SessionIdleTimeout:   getEnvAsDurationOrDefault("SESSION_IDLE_TIMEOUT", 30*time.Minute),
	}

	return cfg
}

// ClientConfig is what the command-line chat client needs.
type ClientConfig struct {
	RelayURL string
	Debug    bool
}

func LoadClient() *ClientConfig {
	godotenv.Load()

	return &ClientConfig{
		RelayURL: getEnvOrDefault("RELAY_URL", "http://localhost:3000"),
		Debug:    getEnvAsBoolOrDefault("DEBUG", false),
	}
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
