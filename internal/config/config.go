package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all process-wide settings. It is loaded once at startup
// and injected into the components that need it.
type Config struct {
	AppPort string
	Env     string

	DatabaseDSN string

	JWTSecret          string
	RefreshSecret      string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	OTPExpiryMinutes   int

	UploadDir string

	RabbitMQURL string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=shopadmin port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "change-me-too")
	viper.SetDefault("JWT_EXPIRES_IN", "1h")
	viper.SetDefault("REFRESH_TOKEN_EXPIRES_IN", "168h")
	viper.SetDefault("OTP_EXPIRY_MINUTES", 15)
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	return &Config{
		AppPort:          viper.GetString("APP_PORT"),
		Env:              viper.GetString("APP_ENV"),
		DatabaseDSN:      viper.GetString("DATABASE_DSN"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		RefreshSecret:    viper.GetString("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:   viper.GetDuration("JWT_EXPIRES_IN"),
		RefreshTokenTTL:  viper.GetDuration("REFRESH_TOKEN_EXPIRES_IN"),
		OTPExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
		UploadDir:        viper.GetString("UPLOAD_DIR"),
		RabbitMQURL:      viper.GetString("RABBITMQ_URL"),
	}
}

// IsDevelopment reports whether the process runs in development mode.
// Some responses (OTP echo, internal error details) are only allowed then.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
