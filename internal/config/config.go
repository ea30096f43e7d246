package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the server.
type Config struct {
	ServerAddr string

	DBDriver string
	DBDSN    string

	ModelsDir  string
	VoicesDir  string
	ResultsDir string

	TTSURL    string
	RenderURL string

	TickSeconds   int
	RetentionDays int
	PurgeCronSpec string
}

// Load reads environment variables (optionally from a .env file) and
// returns normalized runtime config.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBDSN:         getEnv("DB_DSN", "./data/talkinghead.db"),
		ModelsDir:     getEnv("MODELS_DIR", "./data/models"),
		VoicesDir:     getEnv("VOICES_DIR", "./data/voices"),
		ResultsDir:    getEnv("RESULTS_DIR", "./data/results"),
		TTSURL:        strings.TrimSpace(os.Getenv("TTS_URL")),
		RenderURL:     strings.TrimSpace(os.Getenv("RENDER_URL")),
		TickSeconds:   getEnvInt("TICK_SECONDS", 5),
		RetentionDays: getEnvInt("RETENTION_DAYS", 30),
		PurgeCronSpec: getEnv("PURGE_CRON", "0 3 * * *"),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	var out int
	_, err := fmt.Sscanf(value, "%d", &out)
	if err != nil || out <= 0 {
		return fallback
	}
	return out
}
