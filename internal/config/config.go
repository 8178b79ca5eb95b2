/**
 * @description
 * This package handles configuration management for the banking service. It
 * uses the Viper library to read configuration from environment variables,
 * with an optional `.env` file for local development.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the banking service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	EventExchange string `mapstructure:"EVENT_EXCHANGE"`

	TickIntervalSeconds    int `mapstructure:"TICK_INTERVAL_SECONDS"`
	DwellSubmittedSeconds  int `mapstructure:"DWELL_SUBMITTED_SECONDS"`
	DwellConvertingSeconds int `mapstructure:"DWELL_CONVERTING_SECONDS"`
	DwellInTransitSeconds  int `mapstructure:"DWELL_IN_TRANSIT_SECONDS"`
	DwellClearanceSeconds  int `mapstructure:"DWELL_CLEARANCE_SECONDS"`

	ClearanceFeePercent      float64 `mapstructure:"CLEARANCE_FEE_PERCENT"`
	HighAmountThresholdCents int64   `mapstructure:"HIGH_AMOUNT_THRESHOLD_CENTS"`
	DomesticCountry          string  `mapstructure:"DOMESTIC_COUNTRY"`

	BillReminderSchedule    string `mapstructure:"BILL_REMINDER_SCHEDULE"`
	BillReminderWindowHours int    `mapstructure:"BILL_REMINDER_WINDOW_HOURS"`
	BillReminderEmail       string `mapstructure:"BILL_REMINDER_EMAIL"`
}

// LoadConfig reads configuration from environment variables and an optional
// .env file at the given path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("EVENT_EXCHANGE", "icredit.events")
	viper.SetDefault("TICK_INTERVAL_SECONDS", 2)
	viper.SetDefault("DWELL_SUBMITTED_SECONDS", 4)
	viper.SetDefault("DWELL_CONVERTING_SECONDS", 8)
	viper.SetDefault("DWELL_IN_TRANSIT_SECONDS", 12)
	viper.SetDefault("DWELL_CLEARANCE_SECONDS", 4)
	viper.SetDefault("CLEARANCE_FEE_PERCENT", 15.0)
	viper.SetDefault("HIGH_AMOUNT_THRESHOLD_CENTS", 1_000_000)
	viper.SetDefault("DOMESTIC_COUNTRY", "US")
	viper.SetDefault("BILL_REMINDER_SCHEDULE", "0 9 * * *")
	viper.SetDefault("BILL_REMINDER_WINDOW_HOURS", 72)
	viper.SetDefault("BILL_REMINDER_EMAIL", "")

	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("EVENT_EXCHANGE")
	_ = viper.BindEnv("TICK_INTERVAL_SECONDS")
	_ = viper.BindEnv("DWELL_SUBMITTED_SECONDS")
	_ = viper.BindEnv("DWELL_CONVERTING_SECONDS")
	_ = viper.BindEnv("DWELL_IN_TRANSIT_SECONDS")
	_ = viper.BindEnv("DWELL_CLEARANCE_SECONDS")
	_ = viper.BindEnv("CLEARANCE_FEE_PERCENT")
	_ = viper.BindEnv("HIGH_AMOUNT_THRESHOLD_CENTS")
	_ = viper.BindEnv("DOMESTIC_COUNTRY")
	_ = viper.BindEnv("BILL_REMINDER_SCHEDULE")
	_ = viper.BindEnv("BILL_REMINDER_WINDOW_HOURS")
	_ = viper.BindEnv("BILL_REMINDER_EMAIL")

	// Attempt to read the config file. It's fine if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.TickIntervalSeconds <= 0 {
		config.TickIntervalSeconds = 2
	}
	if config.DwellSubmittedSeconds <= 0 {
		config.DwellSubmittedSeconds = 4
	}
	if config.DwellConvertingSeconds <= config.DwellSubmittedSeconds {
		log.Printf("level=warn component=config msg=\"converting dwell must exceed submitted dwell; using default spacing\" converting=%d submitted=%d",
			config.DwellConvertingSeconds, config.DwellSubmittedSeconds)
		config.DwellConvertingSeconds = config.DwellSubmittedSeconds + 4
	}
	if config.DwellInTransitSeconds <= config.DwellConvertingSeconds {
		log.Printf("level=warn component=config msg=\"in-transit dwell must exceed converting dwell; using default spacing\" in_transit=%d converting=%d",
			config.DwellInTransitSeconds, config.DwellConvertingSeconds)
		config.DwellInTransitSeconds = config.DwellConvertingSeconds + 4
	}
	if config.DwellClearanceSeconds <= 0 {
		config.DwellClearanceSeconds = 4
	}

	if config.ClearanceFeePercent < 0 {
		log.Printf("level=warn component=config msg=\"negative clearance fee percent configured; coercing to zero\" fee_percent=%f", config.ClearanceFeePercent)
		config.ClearanceFeePercent = 0
	}
	if config.ClearanceFeePercent > 100 {
		log.Printf("level=warn component=config msg=\"clearance fee percent too high; capping at 100\" fee_percent=%f", config.ClearanceFeePercent)
		config.ClearanceFeePercent = 100
	}
	if config.HighAmountThresholdCents <= 0 {
		config.HighAmountThresholdCents = 1_000_000
	}
	if config.BillReminderWindowHours <= 0 {
		config.BillReminderWindowHours = 72
	}

	return
}

// TickInterval returns the lifecycle tick period as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalSeconds) * time.Second
}

// DwellSubmitted is the elapsed time after which a submitted transaction
// leaves SUBMITTED.
func (c Config) DwellSubmitted() time.Duration {
	return time.Duration(c.DwellSubmittedSeconds) * time.Second
}

// DwellConverting is the elapsed time (from the SUBMITTED anchor) after which
// a converting transaction moves to IN_TRANSIT.
func (c Config) DwellConverting() time.Duration {
	return time.Duration(c.DwellConvertingSeconds) * time.Second
}

// DwellInTransit is the elapsed time (from the SUBMITTED anchor) after which
// an in-transit transaction arrives.
func (c Config) DwellInTransit() time.Duration {
	return time.Duration(c.DwellInTransitSeconds) * time.Second
}

// DwellClearance is the elapsed time from the clearance grant after which the
// transaction re-enters the main path.
func (c Config) DwellClearance() time.Duration {
	return time.Duration(c.DwellClearanceSeconds) * time.Second
}

// BillReminderWindow is how far ahead the due-date reminder job looks.
func (c Config) BillReminderWindow() time.Duration {
	return time.Duration(c.BillReminderWindowHours) * time.Hour
}
