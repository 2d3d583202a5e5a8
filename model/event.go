package model

// Event is an inbound message already classified by the transport layer.
// Exactly one of Command, Text or Attachment is set.
type Event struct {
	SubmitterID string
	Handle      string
	ChatID      string
	MessageID   string

	Command string
	Args    string

	Text       string
	Attachment *MediaItem
	// Answer marks Text chosen from prompt options rather than typed.
	Answer bool
}

// IsCommand reports whether the event carries a command.
func (e Event) IsCommand() bool {
	return e.Command != ""
}

// IsContent reports whether the event carries text or an attachment.
func (e Event) IsContent() bool {
	return e.Command == "" && (e.Text != "" || e.Attachment != nil)
}

// Item returns the event content as a media item. Text messages become
// items of kind MediaText so both paths share one type downstream.
func (e Event) Item() MediaItem {
	if e.Attachment != nil {
		item := *e.Attachment
		if item.OriginChatID == "" {
			item.OriginChatID = e.ChatID
		}
		if item.OriginMessageID == "" {
			item.OriginMessageID = e.MessageID
		}
		return item
	}
	return MediaItem{
		Kind:            MediaText,
		Caption:         e.Text,
		OriginChatID:    e.ChatID,
		OriginMessageID: e.MessageID,
	}
}
