package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string `mapstructure:"PORT"`
	DatabasePath        string `mapstructure:"DATABASE_PATH"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	PublicURL           string `mapstructure:"PUBLIC_URL"`
	QRDir               string `mapstructure:"QR_DIR"`
	HoldTTLMinutes      int    `mapstructure:"HOLD_TTL_MINUTES"`
	RedisAddr           string `mapstructure:"REDIS_ADDR"`
	CacheTTLSeconds     int    `mapstructure:"CACHE_TTL_SECONDS"`
	GoogleClientID      string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL   string `mapstructure:"GOOGLE_REDIRECT_URL"`
	DiscordBotToken     string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordOpsChannelID string `mapstructure:"DISCORD_OPS_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "lebadvisor.db")
	viper.SetDefault("PUBLIC_URL", "https://www.lebadvisor.com")
	viper.SetDefault("QR_DIR", "qrcodes")
	viper.SetDefault("HOLD_TTL_MINUTES", 0) // 0 disables hold expiry
	viper.SetDefault("CACHE_TTL_SECONDS", 60)
	viper.SetDefault("GOOGLE_REDIRECT_URL", "http://127.0.0.1:8080/auth/google/callback")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("PUBLIC_URL")
	viper.BindEnv("QR_DIR")
	viper.BindEnv("HOLD_TTL_MINUTES")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("CACHE_TTL_SECONDS")
	viper.BindEnv("GOOGLE_CLIENT_ID")
	viper.BindEnv("GOOGLE_CLIENT_SECRET")
	viper.BindEnv("GOOGLE_REDIRECT_URL")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_OPS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
