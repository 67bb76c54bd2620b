package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Reverse proxies allowed to set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Remote booking API.
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	APITimeout        time.Duration `mapstructure:"API_TIMEOUT"`
	APIServiceToken   string        `mapstructure:"API_SERVICE_TOKEN"`
	APIRequestsPerSec float64       `mapstructure:"API_REQUESTS_PER_SEC"`

	// Public origin used to build shareable join links.
	PublicOrigin string `mapstructure:"PUBLIC_ORIGIN"`
	Timezone     string `mapstructure:"TIMEZONE"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	SessionKey string        `mapstructure:"SESSION_KEY"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`
	DraftTTL   time.Duration `mapstructure:"DRAFT_TTL"`

	// MongoDB (submission journal).
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisDraftDB   int    `mapstructure:"REDIS_DRAFT_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	CompensationMaxRetry int `mapstructure:"COMPENSATION_MAX_RETRY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("TRUSTED_PROXIES", []string{})

	viper.SetDefault("API_BASE_URL", "http://localhost:3000/api")
	viper.SetDefault("API_TIMEOUT", 10*time.Second)
	viper.SetDefault("API_SERVICE_TOKEN", "")
	viper.SetDefault("API_REQUESTS_PER_SEC", 20.0)

	viper.SetDefault("PUBLIC_ORIGIN", "http://localhost:5173")
	viper.SetDefault("TIMEZONE", "America/La_Paz")

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_KEY", "")
	viper.SetDefault("SESSION_TTL", 12*time.Hour)
	viper.SetDefault("DRAFT_TTL", 30*time.Minute)

	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "canchas")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_DRAFT_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)

	viper.SetDefault("COMPENSATION_MAX_RETRY", 8)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to the process local zone.
func Location() *time.Location {
	if AppConfig.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using local time: %v", AppConfig.Timezone, err)
		return time.Local
	}
	return loc
}
