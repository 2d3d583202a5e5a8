package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"postbot/model"
)

const (
	// groupPrefix namespaces media group ids built from message ids.
	groupPrefix = "discord:"
	// answerComponent is the custom id prefix of prompt buttons.
	answerComponent = "answer"
)

// EventsFromMessage classifies a direct message. A message carrying several
// attachments yields one event per attachment, all in the same media group,
// with the message text as the caption of the first. Guild messages and
// messages from bots yield nothing.
func EventsFromMessage(m *discordgo.Message, prefix string) []model.Event {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return nil
	}

	base := model.Event{
		SubmitterID: m.Author.ID,
		Handle:      m.Author.Username,
		ChatID:      m.ChannelID,
		MessageID:   m.ID,
	}
	content := strings.TrimSpace(m.Content)

	if prefix != "" && len(m.Attachments) == 0 && strings.HasPrefix(content, prefix) {
		name, args, _ := strings.Cut(strings.TrimPrefix(content, prefix), " ")
		if name != "" {
			ev := base
			ev.Command = name
			ev.Args = strings.TrimSpace(args)
			return []model.Event{ev}
		}
	}

	switch len(m.Attachments) {
	case 0:
		if content == "" {
			return nil
		}
		ev := base
		ev.Text = m.Content
		return []model.Event{ev}
	case 1:
		ev := base
		item := attachmentItem(m.Attachments[0], m, "")
		item.Caption = m.Content
		ev.Attachment = &item
		return []model.Event{ev}
	}

	group := groupPrefix + m.ID
	events := make([]model.Event, 0, len(m.Attachments))
	for i, a := range m.Attachments {
		item := attachmentItem(a, m, group)
		if i == 0 {
			item.Caption = m.Content
		}
		ev := base
		ev.Attachment = &item
		events = append(events, ev)
	}
	return events
}

func attachmentItem(a *discordgo.MessageAttachment, m *discordgo.Message, group string) model.MediaItem {
	return model.MediaItem{
		Kind:            mediaKind(a.ContentType),
		ContentRef:      a.URL,
		OriginChatID:    m.ChannelID,
		OriginMessageID: m.ID,
		GroupID:         group,
	}
}

func mediaKind(contentType string) model.MediaKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/gif"):
		return model.MediaAnimation
	case strings.HasPrefix(ct, "image/"):
		return model.MediaPhoto
	case strings.HasPrefix(ct, "video/"):
		return model.MediaVideo
	case strings.HasPrefix(ct, "audio/"):
		return model.MediaAudio
	}
	return model.MediaDocument
}

// EventFromInteraction turns a click on a prompt button into the text
// answer it stands for.
func EventFromInteraction(i *discordgo.Interaction) (model.Event, bool) {
	if i == nil || i.Type != discordgo.InteractionMessageComponent || i.GuildID != "" {
		return model.Event{}, false
	}
	user := i.User
	if user == nil && i.Member != nil {
		user = i.Member.User
	}
	if user == nil {
		return model.Event{}, false
	}

	parts := strings.SplitN(i.MessageComponentData().CustomID, ":", 2)
	if len(parts) != 2 || parts[0] != answerComponent || parts[1] == "" {
		return model.Event{}, false
	}

	ev := model.Event{
		SubmitterID: user.ID,
		Handle:      user.Username,
		ChatID:      i.ChannelID,
		Text:        parts[1],
		Answer:      true,
	}
	if i.Message != nil {
		ev.MessageID = i.Message.ID
	}
	return ev, true
}
