package main

import (
	"log"
	"os"
	"strconv"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr         string
	HeldRetentionDays int
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:         getEnv("REDIS_HOST", "localhost:6379"),
		HeldRetentionDays: getEnvInt("HELD_BILL_RETENTION_DAYS", 7),
	}

	log.Printf("[Config] Redis: %s, held-bill retention: %d days",
		cfg.RedisAddr, cfg.HeldRetentionDays)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
