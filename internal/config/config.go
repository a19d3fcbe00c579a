package config

import (
	"os"
	"strings"
)

type Config struct {
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	RedisAddr       string
	JWTSecret       string
	StripeSecretKey string
	AllowOrigins    []string
	GinMode         string
	Port            string
}

func Load() *Config {
	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "taskhive"),
		DBPassword:      getEnv("DB_PASSWORD", "taskhive"),
		DBName:          getEnv("DB_NAME", "taskhive"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		JWTSecret:       getEnv("JWT_SECRET", "default-secret-key-change-me"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		AllowOrigins:    splitEnv("ALLOW_ORIGINS", "http://localhost:5173,http://localhost:5174"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		Port:            getEnv("PORT", "5000"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitEnv(key, defaultValue string) []string {
	return strings.Split(getEnv(key, defaultValue), ",")
}
