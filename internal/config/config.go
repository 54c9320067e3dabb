package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI    string
	TelegramToken  string
	TelegramChatID int64
	RedisAddr      string
	RedisPassword  string
	WeatherBaseURL string
	Latitude       float64
	Longitude      float64
	AIAPIKey       string
	AIBaseURL      string
	AIModel        string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	lat, _ := strconv.ParseFloat(getEnvOrDefault("LATITUDE", "35.6895"), 64)
	lon, _ := strconv.ParseFloat(getEnvOrDefault("LONGITUDE", "139.6917"), 64)

	return &Config{
		DatabaseURI:    os.Getenv("DATABASE_URI"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: chatID,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		WeatherBaseURL: getEnvOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		Latitude:       lat,
		Longitude:      lon,
		AIAPIKey:       os.Getenv("AI_API_KEY"),
		AIBaseURL:      getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:        getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
