// Package config конфигурация сервиса из TOML-файла
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Logs            LogsConfig       `toml:"logs"`
	Metrics         MetricsConfig    `toml:"metrics"`
	Database        DatabaseConfig   `toml:"database"`
	Redis           RedisConfig      `toml:"redis"`
	Policy          PolicyConfig     `toml:"policy"`
	ProfileService  ServiceConfig    `toml:"profile_service"`
	CalendarSync    CalendarConfig   `toml:"calendar_sync"`
	NotifyService   ServiceConfig    `toml:"notify_service"`
	Reconciler      ReconcilerConfig `toml:"reconciler"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN возвращает строку подключения lib/pq
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки кэша доступности
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// PolicyConfig политика бронирования.
// Нулевые значения заменяются дефолтами из internal/domain.
type PolicyConfig struct {
	LeadTimeMinutes    int `toml:"lead_time_minutes"`
	BookingHorizonDays int `toml:"booking_horizon_days"`
}

// ServiceConfig настройки интеграционного HTTP-клиента
type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// CalendarConfig настройки адаптера синхронизации календаря
type CalendarConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// ReconcilerConfig настройки фоновой досинхронизации календаря
type ReconcilerConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

// Load читает конфигурацию из TOML-файла и подставляет дефолты политики
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if cfg.Policy.LeadTimeMinutes == 0 {
		cfg.Policy.LeadTimeMinutes = domain.DefaultLeadTimeMinutes
	}
	if cfg.Policy.BookingHorizonDays == 0 {
		cfg.Policy.BookingHorizonDays = domain.DefaultBookingHorizonDays
	}

	return &cfg, nil
}
