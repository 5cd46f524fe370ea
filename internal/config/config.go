package config

import (
	"fmt"
	"strings"

	"github.com/belleza-studio/belleza-api/internal/logger"

	"github.com/spf13/viper"
)

// Config is the application configuration tree.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Security  SecurityConfig  `mapstructure:"security"`
	Business  BusinessConfig  `mapstructure:"business"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig holds log rotation settings.
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts the log section into logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig holds connection pool settings.
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig selects the storage backend (sqlite/postgres).
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"`
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig holds admin token settings.
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig holds asynq settings.
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig holds abuse protection settings.
type SecurityConfig struct {
	LoginRateLimit   RateLimitConfig `mapstructure:"login_rate_limit"`
	BookingRateLimit RateLimitConfig `mapstructure:"booking_rate_limit"`
}

// RateLimitConfig describes a fixed-window limiter rule.
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// BusinessConfig holds salon-level policy knobs.
type BusinessConfig struct {
	Timezone              string `mapstructure:"timezone"`
	PhoneCountryCode      string `mapstructure:"phone_country_code"`
	StampMinIntervalHours int    `mapstructure:"stamp_min_interval_hours"`
	DefaultMaxStamps      int    `mapstructure:"default_max_stamps"`
	BroadcastDelayMS      int    `mapstructure:"broadcast_delay_ms"`
}

// RemindersConfig controls the reminder sweep.
type RemindersConfig struct {
	IntervalMinutes    int `mapstructure:"interval_minutes"`
	WindowSlackMinutes int `mapstructure:"window_slack_minutes"`
}

// CalendarConfig holds the external calendar collaborator settings.
type CalendarConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	APIBase    string `mapstructure:"api_base"`
	Token      string `mapstructure:"token"`
	CalendarID string `mapstructure:"calendar_id"`
	Attendee1  string `mapstructure:"attendee1"`
	Attendee2  string `mapstructure:"attendee2"`
	TimeoutMS  int    `mapstructure:"timeout_ms"`
}

// WhatsAppConfig holds the WhatsApp transport settings.
type WhatsAppConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIBase     string `mapstructure:"api_base"`
	Token       string `mapstructure:"token"`
	Instance    string `mapstructure:"instance"`
	Template24h string `mapstructure:"template_24h"`
	Template2h  string `mapstructure:"template_2h"`
	TimeoutMS   int    `mapstructure:"timeout_ms"`
}

// WalletConfig holds wallet issuer settings for both platforms.
type WalletConfig struct {
	Google GoogleWalletConfig `mapstructure:"google"`
	Apple  AppleWalletConfig  `mapstructure:"apple"`
}

// GoogleWalletConfig holds Google Wallet issuer settings.
type GoogleWalletConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	APIBase   string `mapstructure:"api_base"`
	IssuerID  string `mapstructure:"issuer_id"`
	ClassID   string `mapstructure:"class_id"`
	Token     string `mapstructure:"token"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// AppleWalletConfig holds Apple Wallet / APNs settings.
type AppleWalletConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	PassTypeID string `mapstructure:"pass_type_id"`
	APNsBase   string `mapstructure:"apns_base"`
	APNsToken  string `mapstructure:"apns_token"`
	TimeoutMS  int    `mapstructure:"timeout_ms"`
}

// Load reads config.yml plus environment overrides.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "belleza.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/belleza.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "blz")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("security.login_rate_limit.window_seconds", 300)
	viper.SetDefault("security.login_rate_limit.max_attempts", 5)
	viper.SetDefault("security.login_rate_limit.block_seconds", 900)
	viper.SetDefault("security.booking_rate_limit.window_seconds", 60)
	viper.SetDefault("security.booking_rate_limit.max_attempts", 10)
	viper.SetDefault("security.booking_rate_limit.block_seconds", 300)
	viper.SetDefault("business.timezone", "America/Mexico_City")
	viper.SetDefault("business.phone_country_code", "52")
	viper.SetDefault("business.stamp_min_interval_hours", 23)
	viper.SetDefault("business.default_max_stamps", 8)
	viper.SetDefault("business.broadcast_delay_ms", 50)
	viper.SetDefault("reminders.interval_minutes", 10)
	viper.SetDefault("reminders.window_slack_minutes", 30)
	viper.SetDefault("calendar.enabled", false)
	viper.SetDefault("calendar.api_base", "https://www.googleapis.com/calendar/v3")
	viper.SetDefault("calendar.token", "")
	viper.SetDefault("calendar.calendar_id", "primary")
	viper.SetDefault("calendar.attendee1", "")
	viper.SetDefault("calendar.attendee2", "")
	viper.SetDefault("calendar.timeout_ms", 15000)
	viper.SetDefault("whatsapp.enabled", false)
	viper.SetDefault("whatsapp.api_base", "")
	viper.SetDefault("whatsapp.token", "")
	viper.SetDefault("whatsapp.instance", "")
	viper.SetDefault("whatsapp.template_24h", "recordatorio_24h")
	viper.SetDefault("whatsapp.template_2h", "recordatorio_2h")
	viper.SetDefault("whatsapp.timeout_ms", 15000)
	viper.SetDefault("wallet.google.enabled", false)
	viper.SetDefault("wallet.google.api_base", "https://walletobjects.googleapis.com/walletobjects/v1")
	viper.SetDefault("wallet.google.issuer_id", "")
	viper.SetDefault("wallet.google.class_id", "")
	viper.SetDefault("wallet.google.token", "")
	viper.SetDefault("wallet.google.timeout_ms", 15000)
	viper.SetDefault("wallet.apple.enabled", false)
	viper.SetDefault("wallet.apple.pass_type_id", "")
	viper.SetDefault("wallet.apple.apns_base", "https://api.push.apple.com")
	viper.SetDefault("wallet.apple.apns_token", "")
	viper.SetDefault("wallet.apple.timeout_ms", 15000)

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config parse failed: %w", err))
	}

	return &cfg
}
