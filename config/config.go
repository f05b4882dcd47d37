package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	LLM     LLMConfig
	Email   EmailConfig
}

type AppConfig struct {
	Port              string
	Env               string
	LogLevel          string
	SerializeTurns    bool
	CORSAllowedOrigin string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig selects where conversational state lives.
type SessionConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	Timeout        time.Duration
	Retries        int
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// A missing .env is fine, the environment alone is enough
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port:              v.GetString("APP_PORT"),
			Env:               v.GetString("APP_ENV"),
			LogLevel:          v.GetString("LOG_LEVEL"),
			SerializeTurns:    v.GetBool("CHAT_SERIALIZE_TURNS"),
			CORSAllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Backend: v.GetString("SESSION_BACKEND"),
			TTL:     durationOr(v, "SESSION_TTL", 24*time.Hour),
		},
		LLM: LLMConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
			Model:   v.GetString("OPENAI_MODEL"),
			Timeout: durationOr(v, "LLM_TIMEOUT", 10*time.Second),
		},
		Email: EmailConfig{
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			FromEmail:      v.GetString("EMAIL_FROM"),
			FromName:       v.GetString("EMAIL_FROM_NAME"),
			Timeout:        durationOr(v, "NOTIFY_TIMEOUT", 5*time.Second),
			Retries:        v.GetInt("NOTIFY_RETRIES"),
		},
	}

	if config.Session.Backend != SessionBackendMemory && config.Session.Backend != SessionBackendRedis {
		return nil, errors.New("SESSION_BACKEND must be either memory or redis")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CHAT_SERIALIZE_TURNS", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "healthbot")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_BACKEND", SessionBackendMemory)
	v.SetDefault("OPENAI_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("OPENAI_MODEL", "deepseek/deepseek-chat-v3.1:free")
	v.SetDefault("EMAIL_FROM_NAME", "HealthBot")
	v.SetDefault("NOTIFY_RETRIES", 2)
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
