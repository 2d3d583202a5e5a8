package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"postbot/model"
	"postbot/utils"
)

// maxAlbumSize is the largest media group the Bot API accepts.
const maxAlbumSize = 10

// albumClass returns which items may share one album. Photos and videos mix
// freely; audio and documents only group with their own kind. Other kinds
// are always sent on their own.
func albumClass(kind model.MediaKind) string {
	switch kind {
	case model.MediaPhoto, model.MediaVideo:
		return "visual"
	case model.MediaAudio:
		return "audio"
	case model.MediaDocument:
		return "document"
	}
	return ""
}

// planDelivery splits a batch into sends that preserve item order. Each
// returned slice with more than one item goes out as a single album.
func planDelivery(items []model.MediaItem) [][]model.MediaItem {
	var run []model.MediaItem
	var out [][]model.MediaItem
	closeRun := func() {
		out = append(out, utils.Chunk(run, maxAlbumSize)...)
		run = nil
	}

	for _, item := range items {
		class := albumClass(item.Kind)
		if class == "" {
			closeRun()
			out = append(out, []model.MediaItem{item})
			continue
		}
		if len(run) > 0 && albumClass(run[0].Kind) != class {
			closeRun()
		}
		run = append(run, item)
	}
	closeRun()
	return out
}

func inputMedia(item model.MediaItem) interface{} {
	file := tgbotapi.FileID(item.ContentRef)
	switch item.Kind {
	case model.MediaPhoto:
		m := tgbotapi.NewInputMediaPhoto(file)
		m.Caption = item.Caption
		return m
	case model.MediaVideo:
		m := tgbotapi.NewInputMediaVideo(file)
		m.Caption = item.Caption
		return m
	case model.MediaAudio:
		m := tgbotapi.NewInputMediaAudio(file)
		m.Caption = item.Caption
		return m
	default:
		m := tgbotapi.NewInputMediaDocument(file)
		m.Caption = item.Caption
		return m
	}
}

// single builds the request that re-sends one item by file id.
func single(chatID int64, item model.MediaItem) tgbotapi.Chattable {
	file := tgbotapi.FileID(item.ContentRef)
	switch item.Kind {
	case model.MediaPhoto:
		c := tgbotapi.NewPhoto(chatID, file)
		c.Caption = item.Caption
		return c
	case model.MediaVideo:
		c := tgbotapi.NewVideo(chatID, file)
		c.Caption = item.Caption
		return c
	case model.MediaAudio:
		c := tgbotapi.NewAudio(chatID, file)
		c.Caption = item.Caption
		return c
	case model.MediaAnimation:
		c := tgbotapi.NewAnimation(chatID, file)
		c.Caption = item.Caption
		return c
	case model.MediaVoice:
		c := tgbotapi.NewVoice(chatID, file)
		c.Caption = item.Caption
		return c
	case model.MediaVideoNote:
		return tgbotapi.NewVideoNote(chatID, 0, file)
	case model.MediaSticker:
		return tgbotapi.NewSticker(chatID, file)
	case model.MediaText:
		return tgbotapi.NewMessage(chatID, item.Caption)
	default:
		c := tgbotapi.NewDocument(chatID, file)
		c.Caption = item.Caption
		return c
	}
}
