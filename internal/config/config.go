package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// ErrInvalidConfig возвращается, когда конфигурация содержит недопустимые значения
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Auth          AuthConfig          `toml:"auth"`
	Shop          ShopConfig          `toml:"shop"`
	Cache         CacheConfig         `toml:"cache"`
	Mailer        MailerConfig        `toml:"mailer"`
	Events        EventsConfig        `toml:"events"`
	Notifications NotificationsConfig `toml:"notifications"`
	Reminders     RemindersConfig     `toml:"reminders"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки проверки JWT токенов провайдера аутентификации
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
	Audience  string `toml:"audience"`
}

// ShopConfig каталог услуг и часов работы
type ShopConfig struct {
	Name            string   `toml:"name"`
	Timezone        string   `toml:"timezone"`
	Services        []string `toml:"services"`
	FirstSlot       string   `toml:"first_slot"`
	LastSlot        string   `toml:"last_slot"`
	SlotStepMinutes int      `toml:"slot_step_minutes"`
}

// Location часовой пояс барбершопа
func (s ShopConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Catalog строит каталог услуг и часов
func (s ShopConfig) Catalog() (*domain.Catalog, error) {
	return domain.NewCatalog(s.Services, types.TimeString(s.FirstSlot), types.TimeString(s.LastSlot), s.SlotStepMinutes)
}

// CacheConfig настройки Redis (advisory кэш занятых часов)
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
	KeyPrefix  string `toml:"key_prefix"`
}

// TTL время жизни записи кэша
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// MailerConfig настройки HTTP API отправки писем
type MailerConfig struct {
	Enabled     bool   `toml:"enabled"`
	URL         string `toml:"url"`
	APIKey      string `toml:"api_key"`
	SenderEmail string `toml:"sender_email"`
	SenderName  string `toml:"sender_name"`
	Timeout     int    `toml:"timeout"`
}

// EventsConfig настройки RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// NotificationsConfig политика уведомлений клиента
type NotificationsConfig struct {
	NotifyOnAdminCancel bool `toml:"notify_on_admin_cancel"`
	NotifyOnOwnerCancel bool `toml:"notify_on_owner_cancel"`
	SendTimeout         int  `toml:"send_timeout"`
}

// RemindersConfig настройки напоминаний о визите на следующий день
type RemindersConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`
}

// secrets значения, которые не хранятся в config.toml
type secrets struct {
	DBPassword     string `envconfig:"DB_PASSWORD"`
	JWTSecret      string `envconfig:"JWT_SECRET"`
	MailerAPIKey   string `envconfig:"MAILER_API_KEY"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RabbitURL      string `envconfig:"RABBIT_URL"`
	ConfigLogLevel string `envconfig:"LOG_LEVEL"`
}

// EnvPrefix префикс переменных окружения (BOOKING_DB_PASSWORD и т.д.)
const EnvPrefix = "BOOKING"

// Load читает TOML файл, подставляет значения по умолчанию и секреты из окружения.
// Файл .env рядом с бинарником загружается, если он существует.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var s secrets
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if s.DBPassword != "" {
		cfg.Database.Password = s.DBPassword
	}
	if s.JWTSecret != "" {
		cfg.Auth.JWTSecret = s.JWTSecret
	}
	if s.MailerAPIKey != "" {
		cfg.Mailer.APIKey = s.MailerAPIKey
	}
	if s.RedisPassword != "" {
		cfg.Cache.Password = s.RedisPassword
	}
	if s.RabbitURL != "" {
		cfg.Events.URL = s.RabbitURL
	}
	if s.ConfigLogLevel != "" {
		cfg.Logs.Level = s.ConfigLogLevel
	}
	return nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "barber_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "barber_booking",
		},
		Shop: ShopConfig{
			Name:            "Barbería",
			Timezone:        "UTC",
			FirstSlot:       string(domain.DefaultFirstSlot),
			LastSlot:        string(domain.DefaultLastSlot),
			SlotStepMinutes: domain.DefaultSlotStepMinutes,
		},
		Cache: CacheConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 60,
			KeyPrefix:  "barber:slots:",
		},
		Mailer: MailerConfig{
			URL:         "https://api.brevo.com/v3/smtp/email",
			SenderEmail: "no-reply@barberia.local",
			SenderName:  "Barbería",
			Timeout:     8,
		},
		Events: EventsConfig{
			Exchange: "booking.exchange",
		},
		Notifications: NotificationsConfig{
			NotifyOnAdminCancel: true,
			NotifyOnOwnerCancel: false,
			SendTimeout:         8,
		},
		Reminders: RemindersConfig{
			Schedule: "0 10 * * *",
		},
	}
}

// applyDefaults заполняет значения, обнуленные в файле
func (c *Config) applyDefaults() {
	if len(c.Shop.Services) == 0 {
		c.Shop.Services = append([]string(nil), domain.DefaultServices...)
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "barber_booking"
	}
}

// Validate проверяет конфигурацию на допустимые значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required (set %s_JWT_SECRET)", ErrInvalidConfig, EnvPrefix)
	}
	if _, err := c.Shop.Location(); err != nil {
		return fmt.Errorf("%w: shop.timezone %q: %v", ErrInvalidConfig, c.Shop.Timezone, err)
	}
	if _, err := c.Shop.Catalog(); err != nil {
		return fmt.Errorf("%w: shop catalog: %v", ErrInvalidConfig, err)
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must be positive", ErrInvalidConfig)
	}
	if c.Mailer.Enabled && (c.Mailer.URL == "" || c.Mailer.APIKey == "") {
		return fmt.Errorf("%w: mailer.url and mailer.api_key are required when mailer is enabled", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	if c.Reminders.Enabled {
		if _, err := cron.ParseStandard(c.Reminders.Schedule); err != nil {
			return fmt.Errorf("%w: reminders.schedule %q: %v", ErrInvalidConfig, c.Reminders.Schedule, err)
		}
	}
	return nil
}
