package model

// MediaKind enumerates the kinds of content a submitter can send.
type MediaKind string

const (
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaAudio     MediaKind = "audio"
	MediaAnimation MediaKind = "animation"
	MediaVoice     MediaKind = "voice"
	MediaDocument  MediaKind = "document"
	MediaSticker   MediaKind = "sticker"
	MediaText      MediaKind = "text"
	MediaVideoNote MediaKind = "video_note"
)

// MediaItem is one inbound attachment.
type MediaItem struct {
	Kind MediaKind
	// ContentRef is the transport handle used to re-send the content
	// (a Telegram file id, a Discord attachment URL).
	ContentRef      string
	Caption         string
	OriginChatID    string
	OriginMessageID string
	// GroupID is set only when the item is one of several sent together.
	GroupID string
}

// Grouped reports whether the item belongs to a media group.
func (m MediaItem) Grouped() bool {
	return m.GroupID != ""
}
