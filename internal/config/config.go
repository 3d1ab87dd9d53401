package config

import (
	"fmt"
	"os"
	"strconv"

	"storefront/internal/repository"
)

// Config собирается из переменных окружения; у каждого параметра есть
// значение по умолчанию для локального запуска
type Config struct {
	HTTPAddr string
	// Store: "postgres" или "memory" (без персистентности, для разработки)
	Store string
	DB    repository.Credentials
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Store:    getEnv("STORE", "postgres"),
	}

	dbPort := getEnv("DB_PORT", "5432")
	port, err := strconv.Atoi(dbPort)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT %q: %w", dbPort, err)
	}

	cfg.DB = repository.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              port,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "storefront"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}
	return cfg, nil
}
