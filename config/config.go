package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"postbot/model"
	"postbot/workflow"
)

const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

// Cfg is the configuration loaded by LoadConfig.
var Cfg model.Config

// LoadConfig reads .env, config.yaml and POSTBOT_* variables into Cfg.
func LoadConfig() (err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	Cfg, err = Load(".", "./config")
	return
}

// Load builds a configuration from config.yaml in the first matching path and
// the environment. A missing config file is not an error.
func Load(paths ...string) (model.Config, error) {
	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("POSTBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg model.Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))

	return cfg, Validate(cfg)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("platform", PlatformTelegram)
	v.SetDefault("reviewers", []string{})
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.command_prefix", "!")
	v.SetDefault("workflow.debounce_window", workflow.DefaultDebounceWindow)
	v.SetDefault("workflow.max_anonymity_retries", 0)
	v.SetDefault("database.path", "./data/postbot.db")
	v.SetDefault("health.addr", ":50051")
	v.SetDefault("log.level", "info")
}

// Validate checks the settings the bot cannot start without.
func Validate(cfg model.Config) error {
	switch cfg.Platform {
	case PlatformTelegram:
		if cfg.Telegram.Token == "" {
			return errors.New("telegram.token is required")
		}
	case PlatformDiscord:
		if cfg.Discord.Token == "" {
			return errors.New("discord.token is required")
		}
	default:
		return fmt.Errorf("unknown platform %q", cfg.Platform)
	}

	if len(cfg.Reviewers) == 0 {
		return errors.New("at least one reviewer is required")
	}
	if cfg.Workflow.DebounceWindow <= 0 {
		return errors.New("workflow.debounce_window must be positive")
	}
	if cfg.Workflow.MaxAnonymityRetries < 0 {
		return errors.New("workflow.max_anonymity_retries must not be negative")
	}
	return nil
}
