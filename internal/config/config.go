package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultGuildID is the role-play server whose faction roles war declarations mention.
const DefaultGuildID = "926452447243825192"

type Config struct {
	DiscordToken          string   `env:"DISCORD_TOKEN,required,notEmpty"`
	DiscordGuildID        string   `env:"DISCORD_GUILD_ID" envDefault:"926452447243825192"`
	DiscordGuildBlacklist []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	InitSlashCommands     bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	StoragePath           string   `env:"STORAGE_PATH" envDefault:"data/datastore.json"`
	LogLevel              string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFile               string   `env:"LOG_FILE"`
	LogJSON               bool     `env:"LOG_JSON" envDefault:"false"`
}

// LoadDotEnv reads .env into the process environment when present.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Info().Msg("No .env file found, falling back to system environment variables")
	}
}

// Load parses the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the configuration from the given variables only.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DiscordGuildID == "" {
		cfg.DiscordGuildID = DefaultGuildID
	}
	return &cfg, nil
}

// New loads .env and the environment, and exits when the configuration is invalid.
func New() *Config {
	LoadDotEnv()
	cfg, err := Load()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}
	return cfg
}
