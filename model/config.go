package model

import "time"

// Config mirrors the top-level structure of config.yaml.
type Config struct {
	Platform  string         `mapstructure:"platform"`
	Reviewers []string       `mapstructure:"reviewers"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	Discord   DiscordConfig  `mapstructure:"discord"`
	Workflow  WorkflowConfig `mapstructure:"workflow"`
	Database  DatabaseConfig `mapstructure:"database"`
	Health    HealthConfig   `mapstructure:"health"`
	Log       LogConfig      `mapstructure:"log"`
}

// TelegramConfig corresponds to the "telegram" section.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

// DiscordConfig corresponds to the "discord" section.
type DiscordConfig struct {
	Token         string `mapstructure:"token"`
	CommandPrefix string `mapstructure:"command_prefix"`
}

// WorkflowConfig tunes the submission conversation.
type WorkflowConfig struct {
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
	// MaxAnonymityRetries bounds invalid answers to the anonymity question.
	// Zero means unbounded.
	MaxAnonymityRetries int `mapstructure:"max_anonymity_retries"`
}

// DatabaseConfig corresponds to the "database" section.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// HealthConfig corresponds to the "health" section. An empty Addr disables
// the gRPC health endpoint.
type HealthConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig corresponds to the "log" section.
type LogConfig struct {
	Level string `mapstructure:"level"`
}
