package config

import (
	"log"

	"daybreak/backend/internal/game"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	Port             string `mapstructure:"PORT"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	GinMode          string `mapstructure:"GIN_MODE"`
	StartingHandSize int    `mapstructure:"STARTING_HAND_SIZE"`
	MaxRounds        int    `mapstructure:"MAX_ROUNDS"`
	RoundGoldIncome  int    `mapstructure:"ROUND_GOLD_INCOME"`
	ReshuffleDiscard bool   `mapstructure:"RESHUFFLE_DISCARD"`
	PersistSnapshots bool   `mapstructure:"PERSIST_SNAPSHOTS"`
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STARTING_HAND_SIZE", game.DefaultRules.StartingHandSize)
	v.SetDefault("MAX_ROUNDS", game.DefaultRules.MaxRounds)
	v.SetDefault("ROUND_GOLD_INCOME", game.DefaultRules.RoundGoldIncome)
	v.SetDefault("RESHUFFLE_DISCARD", false)
	v.SetDefault("PERSIST_SNAPSHOTS", true)

	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	cfg, err := Load(viper.GetViper(), ".")
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	AppConfig = cfg
}

// Load reads configuration through v, looking for a .env file in dir.
func Load(v *viper.Viper, dir string) (*Config, error) {
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	setDefaults(v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Rules projects the gameplay settings.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		StartingHandSize: c.StartingHandSize,
		MaxRounds:        c.MaxRounds,
		RoundGoldIncome:  c.RoundGoldIncome,
		ReshuffleDiscard: c.ReshuffleDiscard,
	}
}
