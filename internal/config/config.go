package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	GeocodeURL     string        `mapstructure:"GEOCODE_URL"`

	// Scheduling policy knobs. Defaults match the booking pages; the
	// qualitative behavior is the contract, not the exact numbers.
	SlotStepMinutes     int     `mapstructure:"SLOT_STEP_MINUTES"`
	SlotBufferMinutes   int     `mapstructure:"SLOT_BUFFER_MINUTES"`
	LargeDogWeightLbs   float64 `mapstructure:"LARGE_DOG_WEIGHT_LBS"`
	AreaScanHorizonDays int     `mapstructure:"AREA_SCAN_HORIZON_DAYS"`

	BreakAfterWorkedMinutes int     `mapstructure:"BREAK_AFTER_WORKED_MINUTES"`
	BreakAfterWeightLbs     float64 `mapstructure:"BREAK_AFTER_WEIGHT_LBS"`
	LunchAfterWorkedMinutes int     `mapstructure:"LUNCH_AFTER_WORKED_MINUTES"`
	BreakMinutesShort       int     `mapstructure:"BREAK_MINUTES_SHORT"`
	BreakMinutesLunch       int     `mapstructure:"BREAK_MINUTES_LUNCH"`

	WatchlistWeightDay         float64 `mapstructure:"WATCHLIST_WEIGHT_DAY"`
	WatchlistWeightTime        float64 `mapstructure:"WATCHLIST_WEIGHT_TIME"`
	WatchlistWeightArea        float64 `mapstructure:"WATCHLIST_WEIGHT_AREA"`
	WatchlistWeightProximity   float64 `mapstructure:"WATCHLIST_WEIGHT_PROXIMITY"`
	WatchlistWeightValue       float64 `mapstructure:"WATCHLIST_WEIGHT_VALUE"`
	WatchlistWeightReliability float64 `mapstructure:"WATCHLIST_WEIGHT_RELIABILITY"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("SLOT_STEP_MINUTES", 30)
	v.SetDefault("SLOT_BUFFER_MINUTES", 15)
	v.SetDefault("LARGE_DOG_WEIGHT_LBS", 50.0)
	v.SetDefault("AREA_SCAN_HORIZON_DAYS", 30)

	v.SetDefault("BREAK_AFTER_WORKED_MINUTES", 180)
	v.SetDefault("BREAK_AFTER_WEIGHT_LBS", 300.0)
	v.SetDefault("LUNCH_AFTER_WORKED_MINUTES", 300)
	v.SetDefault("BREAK_MINUTES_SHORT", 15)
	v.SetDefault("BREAK_MINUTES_LUNCH", 30)

	v.SetDefault("WATCHLIST_WEIGHT_DAY", 3.0)
	v.SetDefault("WATCHLIST_WEIGHT_TIME", 1.0)
	v.SetDefault("WATCHLIST_WEIGHT_AREA", 3.0)
	v.SetDefault("WATCHLIST_WEIGHT_PROXIMITY", 2.0)
	v.SetDefault("WATCHLIST_WEIGHT_VALUE", 1.5)
	v.SetDefault("WATCHLIST_WEIGHT_RELIABILITY", 1.5)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
