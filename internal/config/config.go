// Пакет config — загрузка и валидация конфигурации API Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Режимы окружения приложения.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config содержит все параметры конфигурации API Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8000-8009)
	Port int
	// Режим окружения (development, production).
	// В production тексты ошибок Remote Service не передаются клиентам.
	Environment string
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL (локальный реестр производственных данных) ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Supabase (Remote Identity & Table Service) ---

	// URL проекта Supabase (например, https://xyzcompany.supabase.co)
	SupabaseURL string
	// Публичный (anon) ключ — верификация пользовательских токенов
	SupabaseAnonKey string
	// Привилегированный (service role) ключ — Admin API и таблица ролей
	SupabaseServiceKey string
	// Таймаут HTTP-запросов к Supabase
	SupabaseTimeout time.Duration

	// --- Мониторинг ---

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках topologymetrics
	DephealthGroup string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// MD_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("MD_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("MD_PORT: %w", err)
	}
	if cfg.Port < 8000 || cfg.Port > 8009 {
		return nil, fmt.Errorf("MD_PORT: значение %d вне допустимого диапазона 8000-8009", cfg.Port)
	}

	// MD_ENVIRONMENT — режим окружения (по умолчанию development)
	cfg.Environment = getEnvDefault("MD_ENVIRONMENT", EnvDevelopment)
	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		return nil, fmt.Errorf("MD_ENVIRONMENT: недопустимое значение %q, допустимые: development, production", cfg.Environment)
	}

	// MD_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("MD_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("MD_LOG_LEVEL: %w", err)
	}

	// MD_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("MD_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("MD_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// MD_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("MD_DB_HOST")
	if err != nil {
		return nil, err
	}

	// MD_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("MD_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("MD_DB_PORT: %w", err)
	}

	// MD_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("MD_DB_NAME")
	if err != nil {
		return nil, err
	}

	// MD_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("MD_DB_USER")
	if err != nil {
		return nil, err
	}

	// MD_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("MD_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// MD_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("MD_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("MD_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Supabase ---

	// MD_SUPABASE_URL — обязательный
	cfg.SupabaseURL, err = getEnvRequired("MD_SUPABASE_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.SupabaseURL = strings.TrimRight(cfg.SupabaseURL, "/")

	// MD_SUPABASE_ANON_KEY — обязательный
	cfg.SupabaseAnonKey, err = getEnvRequired("MD_SUPABASE_ANON_KEY")
	if err != nil {
		return nil, err
	}

	// MD_SUPABASE_SERVICE_KEY — обязательный
	cfg.SupabaseServiceKey, err = getEnvRequired("MD_SUPABASE_SERVICE_KEY")
	if err != nil {
		return nil, err
	}

	// MD_SUPABASE_TIMEOUT — таймаут запросов к Supabase (по умолчанию 15s)
	cfg.SupabaseTimeout, err = getEnvDuration("MD_SUPABASE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MD_SUPABASE_TIMEOUT: %w", err)
	}

	// --- Мониторинг ---

	// MD_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("MD_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MD_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// MD_DEPHEALTH_GROUP — имя группы в метриках (по умолчанию minedash)
	cfg.DephealthGroup = getEnvDefault("MD_DEPHEALTH_GROUP", "minedash")

	// --- Graceful shutdown ---

	// MD_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("MD_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MD_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// IsProduction возвращает true в production-режиме.
// В production тексты ошибок Remote Service заменяются общими сообщениями.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
