// Package discord connects the submission workflow to a Discord bot that
// talks to users in direct messages.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"postbot/model"
)

// Client sends and receives direct messages. Recipients are user ids; the
// DM channel of each user is opened once and cached.
type Client struct {
	session *discordgo.Session
	prefix  string
	log     *slog.Logger

	mu       sync.Mutex
	channels map[string]string
}

func New(cfg model.DiscordConfig, log *slog.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	// Handlers run in gateway order so attachments keep their sequence.
	session.SyncEvents = true

	prefix := cfg.CommandPrefix
	if prefix == "" {
		prefix = "!"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		session:  session,
		prefix:   prefix,
		log:      log,
		channels: make(map[string]string),
	}, nil
}

// CommandPrefix is how users type commands on Discord.
func (c *Client) CommandPrefix() string {
	return c.prefix
}

func (c *Client) channel(ctx context.Context, userID string) (string, error) {
	c.mu.Lock()
	id, ok := c.channels[userID]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	ch, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("open dm channel for %s: %w", userID, err)
	}

	c.mu.Lock()
	c.channels[userID] = ch.ID
	c.mu.Unlock()
	return ch.ID, nil
}

func (c *Client) sendComplex(ctx context.Context, recipient string, data *discordgo.MessageSend) error {
	ch, err := c.channel(ctx, recipient)
	if err != nil {
		return err
	}
	_, err = c.session.ChannelMessageSendComplex(ch, data, discordgo.WithContext(ctx))
	return err
}

func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	return c.sendComplex(ctx, recipient, &discordgo.MessageSend{Content: truncate(text, maxContentLength)})
}

// SendPrompt shows options as buttons under the question.
func (c *Client) SendPrompt(ctx context.Context, recipient, text string, options []string) error {
	return c.sendComplex(ctx, recipient, promptPayload(text, options))
}

func (c *Client) ForwardMessage(ctx context.Context, recipient, sourceChat, messageID string) error {
	orig, err := c.session.ChannelMessage(sourceChat, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	return c.sendComplex(ctx, recipient, forwardPayload(orig))
}

func (c *Client) SendMediaGroup(ctx context.Context, recipient string, items []model.MediaItem) error {
	for _, payload := range groupPayloads(items) {
		if err := c.sendComplex(ctx, recipient, payload); err != nil {
			return err
		}
	}
	return nil
}

// Run connects to the gateway and delivers direct messages and prompt
// answers to dispatch until ctx is cancelled.
func (c *Client) Run(ctx context.Context, dispatch func(context.Context, model.Event)) error {
	removeMessages := c.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		for _, ev := range EventsFromMessage(m.Message, c.prefix) {
			dispatch(ctx, ev)
		}
	})
	defer removeMessages()

	removeInteractions := c.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		ev, ok := EventFromInteraction(i.Interaction)
		if !ok {
			return
		}
		// Clear the buttons so an answer is given once.
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Components: []discordgo.MessageComponent{},
			},
		})
		if err != nil {
			c.log.Warn("failed to acknowledge prompt answer", "submitter_id", ev.SubmitterID, "error", err)
		}
		dispatch(ctx, ev)
	})
	defer removeInteractions()

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer c.session.Close()

	if err := c.session.UpdateGameStatus(0, c.prefix+"help"); err != nil {
		c.log.Warn("failed to set discord status", "error", err)
	}
	c.log.Info("discord gateway connected", "prefix", c.prefix)

	<-ctx.Done()
	return nil
}
