package bot

import (
	"context"
	"fmt"
	"log/slog"

	"postbot/config"
	"postbot/model"
	"postbot/platform/discord"
	"postbot/platform/telegram"
	"postbot/workflow"
)

// transport is a chat platform the bot runs on.
type transport interface {
	workflow.Messenger
	workflow.Prompter
	// CommandPrefix is how users type commands, used in help texts.
	CommandPrefix() string
	// Run delivers inbound events to dispatch until ctx ends.
	Run(ctx context.Context, dispatch func(context.Context, model.Event)) error
}

func newTransport(cfg model.Config, log *slog.Logger) (transport, error) {
	log = log.With("platform", cfg.Platform)

	switch cfg.Platform {
	case config.PlatformTelegram:
		client, err := telegram.New(cfg.Telegram, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.PlatformDiscord:
		client, err := discord.New(cfg.Discord, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
}
