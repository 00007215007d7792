package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Mail     MailConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
	DraftTTLHours       int
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	// AdminEmail/AdminPassword seed the static credential provider used in
	// dev deployments without an external identity service.
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

type MailConfig struct {
	Enabled         bool
	From            string
	CredentialsJSON string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "lpoflow")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("CACHE_DRAFT_TTL_HOURS", 24)
		viper.SetDefault("AUTH_JWT_SECRET", "")
		viper.SetDefault("AUTH_TOKEN_TTL_HOURS", 12)
		viper.SetDefault("AUTH_ADMIN_EMAIL", "admin@example.com")
		viper.SetDefault("AUTH_ADMIN_PASSWORD", "")
		viper.SetDefault("AUTH_ADMIN_NAME", "Administrator")
		viper.SetDefault("MAIL_ENABLED", false)
		viper.SetDefault("MAIL_FROM", "")
		viper.SetDefault("GMAIL_CREDENTIALS_JSON", "")
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "lpo-exports")
		viper.SetDefault("STORAGE_USE_SSL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
				DraftTTLHours:       viper.GetInt("CACHE_DRAFT_TTL_HOURS"),
			},
			Auth: AuthConfig{
				JWTSecret:     viper.GetString("AUTH_JWT_SECRET"),
				TokenTTLHours: viper.GetInt("AUTH_TOKEN_TTL_HOURS"),
				AdminEmail:    viper.GetString("AUTH_ADMIN_EMAIL"),
				AdminPassword: viper.GetString("AUTH_ADMIN_PASSWORD"),
				AdminName:     viper.GetString("AUTH_ADMIN_NAME"),
			},
			Mail: MailConfig{
				Enabled:         viper.GetBool("MAIL_ENABLED"),
				From:            viper.GetString("MAIL_FROM"),
				CredentialsJSON: viper.GetString("GMAIL_CREDENTIALS_JSON"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}
