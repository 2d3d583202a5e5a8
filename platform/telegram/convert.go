package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"postbot/model"
)

// EventFromMessage classifies a private message. The second result is false
// for messages the bot ignores: group chats, other bots, service messages.
func EventFromMessage(msg *tgbotapi.Message) (model.Event, bool) {
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return model.Event{}, false
	}
	if msg.From.IsBot || !msg.Chat.IsPrivate() {
		return model.Event{}, false
	}

	ev := model.Event{
		SubmitterID: strconv.FormatInt(msg.From.ID, 10),
		Handle:      msg.From.UserName,
		ChatID:      strconv.FormatInt(msg.Chat.ID, 10),
		MessageID:   strconv.Itoa(msg.MessageID),
	}

	if msg.IsCommand() {
		ev.Command = msg.Command()
		ev.Args = msg.CommandArguments()
		return ev, true
	}

	if item, ok := mediaItem(msg); ok {
		item.OriginChatID = ev.ChatID
		item.OriginMessageID = ev.MessageID
		ev.Attachment = &item
		return ev, true
	}

	if msg.Text != "" {
		ev.Text = msg.Text
		return ev, true
	}
	return ev, false
}

func mediaItem(msg *tgbotapi.Message) (model.MediaItem, bool) {
	item := model.MediaItem{
		Caption: msg.Caption,
		GroupID: msg.MediaGroupID,
	}

	switch {
	case len(msg.Photo) > 0:
		// Sizes are ordered smallest first.
		item.Kind = model.MediaPhoto
		item.ContentRef = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		item.Kind = model.MediaVideo
		item.ContentRef = msg.Video.FileID
	case msg.Animation != nil:
		// Animations also populate Document, so they are matched first.
		item.Kind = model.MediaAnimation
		item.ContentRef = msg.Animation.FileID
	case msg.Audio != nil:
		item.Kind = model.MediaAudio
		item.ContentRef = msg.Audio.FileID
	case msg.Voice != nil:
		item.Kind = model.MediaVoice
		item.ContentRef = msg.Voice.FileID
	case msg.VideoNote != nil:
		item.Kind = model.MediaVideoNote
		item.ContentRef = msg.VideoNote.FileID
	case msg.Sticker != nil:
		item.Kind = model.MediaSticker
		item.ContentRef = msg.Sticker.FileID
	case msg.Document != nil:
		item.Kind = model.MediaDocument
		item.ContentRef = msg.Document.FileID
	default:
		return model.MediaItem{}, false
	}
	return item, true
}
