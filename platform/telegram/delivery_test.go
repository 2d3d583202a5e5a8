package telegram

import (
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"postbot/model"
)

func items(kinds ...model.MediaKind) []model.MediaItem {
	out := make([]model.MediaItem, len(kinds))
	for i, k := range kinds {
		out[i] = model.MediaItem{Kind: k, ContentRef: fmt.Sprint(i)}
	}
	return out
}

func shape(plan [][]model.MediaItem) []int {
	out := make([]int, len(plan))
	for i, part := range plan {
		out[i] = len(part)
	}
	return out
}

func TestPlanDelivery(t *testing.T) {
	p, v, a, d := model.MediaPhoto, model.MediaVideo, model.MediaAudio, model.MediaDocument
	tests := []struct {
		name  string
		kinds []model.MediaKind
		want  []int
	}{
		{"single photo", []model.MediaKind{p}, []int{1}},
		{"photos and videos mix", []model.MediaKind{p, v, p, v}, []int{4}},
		{"documents stay apart from photos", []model.MediaKind{p, p, d, d}, []int{2, 2}},
		{"audio between photos", []model.MediaKind{p, a, p}, []int{1, 1, 1}},
		{"sticker breaks the album", []model.MediaKind{p, p, model.MediaSticker, p, p}, []int{2, 1, 2}},
		{"eleven photos", []model.MediaKind{p, p, p, p, p, p, p, p, p, p, p}, []int{10, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planDelivery(items(tt.kinds...))
			if got := shape(plan); fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("expected shape %v, got %v", tt.want, got)
			}

			// Order must survive the split.
			var refs []string
			for _, part := range plan {
				for _, it := range part {
					refs = append(refs, it.ContentRef)
				}
			}
			for i, ref := range refs {
				if ref != fmt.Sprint(i) {
					t.Fatalf("item order changed: %v", refs)
				}
			}
		})
	}
}

func TestInputMediaKeepsCaption(t *testing.T) {
	got, ok := inputMedia(model.MediaItem{Kind: model.MediaPhoto, ContentRef: "f", Caption: "c"}).(tgbotapi.InputMediaPhoto)
	if !ok {
		t.Fatalf("expected InputMediaPhoto")
	}
	if got.Caption != "c" || got.Media != tgbotapi.FileID("f") {
		t.Fatalf("unexpected media %+v", got)
	}
}

func TestSingleKinds(t *testing.T) {
	const chat = int64(7)
	tests := []struct {
		kind model.MediaKind
		want string
	}{
		{model.MediaPhoto, "tgbotapi.PhotoConfig"},
		{model.MediaVideo, "tgbotapi.VideoConfig"},
		{model.MediaAnimation, "tgbotapi.AnimationConfig"},
		{model.MediaVoice, "tgbotapi.VoiceConfig"},
		{model.MediaVideoNote, "tgbotapi.VideoNoteConfig"},
		{model.MediaSticker, "tgbotapi.StickerConfig"},
		{model.MediaText, "tgbotapi.MessageConfig"},
		{model.MediaDocument, "tgbotapi.DocumentConfig"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := fmt.Sprintf("%T", single(chat, model.MediaItem{Kind: tt.kind, ContentRef: "f", Caption: "c"}))
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
