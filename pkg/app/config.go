package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-pg/pg/v10"
)

// LoadConfig reads configuration from environment variables. BOT_TOKEN and
// the database settings are required, everything else has a default.
func LoadConfig() (Config, error) {
	var cfg Config

	cfg.Telegram.Token = os.Getenv("BOT_TOKEN")
	if cfg.Telegram.Token == "" {
		return cfg, fmt.Errorf("BOT_TOKEN is required")
	}
	cfg.Telegram.Debug = envBool("BOT_DEBUG", false)

	cfg.Database = &pg.Options{
		Addr:     envString("DB_ADDR", "localhost:5432"),
		User:     envString("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: envString("DB_NAME", "financetracker"),
		PoolSize: envInt("DB_POOL_SIZE", 5),
	}

	cfg.Server.Host = envString("SERVER_HOST", "localhost")
	cfg.Server.Port = envInt("SERVER_PORT", 8075)
	cfg.Server.IsDevel = envBool("SERVER_IS_DEVEL", false)

	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.OpenAI.Model = os.Getenv("OPENAI_MODEL")

	cfg.Prometheus.URL = os.Getenv("PROMETHEUS_URL")

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
