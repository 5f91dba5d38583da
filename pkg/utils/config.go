package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Email     EmailConfig
	SMS       SMSConfig
	OTP       OTPConfig
	Storage   StorageConfig
	Payment   PaymentConfig
	Notify    NotifyConfig
	Challenge ChallengeConfig
}

type AppConfig struct {
	Name         string
	Port         string
	Debug        bool
	LogPath      string
	CookieSecure bool
	CORSOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	From         string
	TemplatesDir string
}

type SMSConfig struct {
	ProviderURL string
	APIKey      string
	Sender      string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type StorageConfig struct {
	RootDir       string
	PublicBaseURL string
}

type PaymentConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
}

type NotifyConfig struct {
	Workers   int
	QueueSize int
}

// ChallengeConfig selects where pending OTP challenges live: "redis" or "postgres".
type ChallengeConfig struct {
	Store string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "ride-hailing")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("JWT_EXPIRY_HOURS", 1)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_TEMPLATES_DIR", "templates/email")
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("STORAGE_ROOT", "uploads")
	viper.SetDefault("STORAGE_PUBLIC_URL", "http://localhost:8080/uploads")
	viper.SetDefault("PAYMENT_BASE_URL", "https://api.razorpay.com/v1")
	viper.SetDefault("PAYMENT_CURRENCY", "INR")
	viper.SetDefault("NOTIFY_WORKERS", 4)
	viper.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	viper.SetDefault("CHALLENGE_STORE", "redis")

	// .env is optional; containers usually inject plain environment variables
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:         viper.GetString("APP_NAME"),
			Port:         viper.GetString("PORT"),
			Debug:        viper.GetBool("DEBUG"),
			LogPath:      viper.GetString("LOG_PATH"),
			CookieSecure: viper.GetBool("COOKIE_SECURE"),
			CORSOrigins:  splitList(viper.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:         viper.GetString("SMTP_HOST"),
			Port:         viper.GetInt("SMTP_PORT"),
			User:         viper.GetString("SMTP_USER"),
			Password:     viper.GetString("SMTP_PASS"),
			From:         viper.GetString("EMAIL_FROM"),
			TemplatesDir: viper.GetString("EMAIL_TEMPLATES_DIR"),
		},
		SMS: SMSConfig{
			ProviderURL: viper.GetString("SMS_PROVIDER_URL"),
			APIKey:      viper.GetString("SMS_API_KEY"),
			Sender:      viper.GetString("SMS_SENDER"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		Storage: StorageConfig{
			RootDir:       viper.GetString("STORAGE_ROOT"),
			PublicBaseURL: viper.GetString("STORAGE_PUBLIC_URL"),
		},
		Payment: PaymentConfig{
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
			BaseURL:   viper.GetString("PAYMENT_BASE_URL"),
			Currency:  viper.GetString("PAYMENT_CURRENCY"),
		},
		Notify: NotifyConfig{
			Workers:   viper.GetInt("NOTIFY_WORKERS"),
			QueueSize: viper.GetInt("NOTIFY_QUEUE_SIZE"),
		},
		Challenge: ChallengeConfig{
			Store: viper.GetString("CHALLENGE_STORE"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

// splitList parses a comma separated env value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
