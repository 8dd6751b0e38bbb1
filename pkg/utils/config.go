package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Reminder ReminderConfig
	Email    EmailConfig
	Telegram TelegramConfig
	Discord  DiscordConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	Timezone    string
	CORSOrigins []string
	// ToursFile is an optional JSON catalogue upserted at startup.
	ToursFile string
}

// Location resolves APP_TIMEZONE; "Local" or empty means the server zone.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int32
	SQLitePath  string
	AutoMigrate bool
}

type BookingConfig struct {
	// StrictDateLock makes create re-check the date under a storage lock.
	StrictDateLock bool
}

type ReminderConfig struct {
	Secret      string
	SecretHash  string
	Concurrency int
	RatePerSec  float64
	Cron        string
}

type EmailConfig struct {
	ResendAPIKey  string
	From          string
	OperatorEmail string
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

type DiscordConfig struct {
	BotToken  string
	ChannelID string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "tour-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_TIMEZONE", "Local")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("SQLITE_PATH", "tour-booking.db")
	viper.SetDefault("BOOKING_STRICT_DATE_LOCK", false)
	viper.SetDefault("REMINDER_CONCURRENCY", 5)
	viper.SetDefault("REMINDER_RATE_PER_SEC", 2)
	viper.SetDefault("REMINDER_CRON", "")

	// .env is optional, the environment always wins
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			Timezone:    viper.GetString("APP_TIMEZONE"),
			CORSOrigins: SplitList(viper.GetString("CORS_ORIGINS")),
			ToursFile:   viper.GetString("TOURS_FILE"),
		},
		Database: DatabaseConfig{
			Driver:      viper.GetString("DB_DRIVER"),
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			SQLitePath:  viper.GetString("SQLITE_PATH"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Booking: BookingConfig{
			StrictDateLock: viper.GetBool("BOOKING_STRICT_DATE_LOCK"),
		},
		Reminder: ReminderConfig{
			Secret:      viper.GetString("CRON_SECRET"),
			SecretHash:  viper.GetString("CRON_SECRET_HASH"),
			Concurrency: viper.GetInt("REMINDER_CONCURRENCY"),
			RatePerSec:  viper.GetFloat64("REMINDER_RATE_PER_SEC"),
			Cron:        viper.GetString("REMINDER_CRON"),
		},
		Email: EmailConfig{
			ResendAPIKey:  viper.GetString("RESEND_API_KEY"),
			From:          viper.GetString("EMAIL_FROM"),
			OperatorEmail: viper.GetString("DRIVER_EMAIL"),
		},
		Telegram: TelegramConfig{
			BotToken: viper.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID:   viper.GetInt64("TELEGRAM_CHAT_ID"),
		},
		Discord: DiscordConfig{
			BotToken:  viper.GetString("DISCORD_BOT_TOKEN"),
			ChannelID: viper.GetString("DISCORD_CHANNEL_ID"),
		},
	}

	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	return config, nil
}
