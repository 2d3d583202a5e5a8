// Package telegram connects the submission workflow to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"postbot/command"
	"postbot/model"
)

// Client sends and receives messages through one bot account. Recipients
// are user ids, which double as private chat ids on Telegram.
type Client struct {
	api *tgbotapi.BotAPI
	log *slog.Logger
}

func New(cfg model.TelegramConfig, log *slog.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	api.Debug = cfg.Debug

	if log == nil {
		log = slog.Default()
	}
	log.Info("authorized on telegram", "account", api.Self.UserName)
	return &Client{api: api, log: log}, nil
}

// CommandPrefix is how users type commands on Telegram.
func (c *Client) CommandPrefix() string {
	return "/"
}

func chatID(recipient string) (int64, error) {
	id, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", recipient, err)
	}
	return id, nil
}

func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.Send(msg)
	return err
}

func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	id, err := chatID(recipient)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(id, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	return c.send(ctx, msg)
}

// SendPrompt shows options as a one-time reply keyboard.
func (c *Client) SendPrompt(ctx context.Context, recipient, text string, options []string) error {
	id, err := chatID(recipient)
	if err != nil {
		return err
	}

	buttons := make([]tgbotapi.KeyboardButton, len(options))
	for i, opt := range options {
		buttons[i] = tgbotapi.NewKeyboardButton(opt)
	}
	keyboard := tgbotapi.NewOneTimeReplyKeyboard(tgbotapi.NewKeyboardButtonRow(buttons...))
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(id, text)
	msg.ReplyMarkup = keyboard
	return c.send(ctx, msg)
}

func (c *Client) ForwardMessage(ctx context.Context, recipient, sourceChat, messageID string) error {
	to, err := chatID(recipient)
	if err != nil {
		return err
	}
	from, err := chatID(sourceChat)
	if err != nil {
		return err
	}
	msgID, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("invalid telegram message id %q: %w", messageID, err)
	}
	return c.send(ctx, tgbotapi.NewForward(to, from, msgID))
}

// SendMediaGroup re-sends a batch as albums of up to ten items. Items that
// Telegram cannot put in an album are sent one by one in their place.
func (c *Client) SendMediaGroup(ctx context.Context, recipient string, items []model.MediaItem) error {
	id, err := chatID(recipient)
	if err != nil {
		return err
	}

	for _, part := range planDelivery(items) {
		if len(part) == 1 {
			if err := c.send(ctx, single(id, part[0])); err != nil {
				return err
			}
			continue
		}

		media := make([]interface{}, len(part))
		for i, item := range part {
			media[i] = inputMedia(item)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := c.api.SendMediaGroup(tgbotapi.NewMediaGroup(id, media)); err != nil {
			return err
		}
	}
	return nil
}

// Run registers the public command list and delivers private messages to
// dispatch until ctx is cancelled.
func (c *Client) Run(ctx context.Context, dispatch func(context.Context, model.Event)) error {
	if err := c.registerCommands(); err != nil {
		c.log.Warn("failed to register telegram commands", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.api.GetUpdatesChan(u)
	defer c.api.StopReceivingUpdates()

	c.log.Info("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := EventFromMessage(update.Message)
			if !ok {
				continue
			}
			dispatch(ctx, ev)
		}
	}
}

func (c *Client) registerCommands() error {
	defs := command.Public()
	cmds := make([]tgbotapi.BotCommand, len(defs))
	for i, d := range defs {
		cmds[i] = tgbotapi.BotCommand{Command: d.Name, Description: d.Description}
	}
	_, err := c.api.Request(tgbotapi.NewSetMyCommands(cmds...))
	return err
}
