package config

import "os"

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	EventBuffer string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", "scribely.db"),
		EventBuffer: getEnv("EVENT_BUFFER", "64"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
