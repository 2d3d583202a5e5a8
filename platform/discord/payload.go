package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"postbot/model"
	"postbot/utils"
)

const (
	maxEmbeds        = 10
	maxButtonsPerRow = 5
	maxContentLength = 2000
)

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func promptPayload(text string, options []string) *discordgo.MessageSend {
	var rows []discordgo.MessageComponent
	for _, chunk := range utils.Chunk(options, maxButtonsPerRow) {
		buttons := make([]discordgo.MessageComponent, len(chunk))
		for i, opt := range chunk {
			buttons[i] = discordgo.Button{
				Label:    opt,
				Style:    discordgo.PrimaryButton,
				CustomID: answerComponent + ":" + opt,
			}
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return &discordgo.MessageSend{
		Content:    truncate(text, maxContentLength),
		Components: rows,
	}
}

// forwardPayload re-posts a direct message. It never names the author;
// attribution comes from the notification alone.
func forwardPayload(orig *discordgo.Message) *discordgo.MessageSend {
	var b strings.Builder
	b.WriteString("Forwarded message:")
	if orig.Content != "" {
		b.WriteString("\n")
		b.WriteString(orig.Content)
	}

	var embeds []*discordgo.MessageEmbed
	for _, a := range orig.Attachments {
		kind := mediaKind(a.ContentType)
		if (kind == model.MediaPhoto || kind == model.MediaAnimation) && len(embeds) < maxEmbeds {
			embeds = append(embeds, &discordgo.MessageEmbed{
				Image: &discordgo.MessageEmbedImage{URL: a.URL},
			})
			continue
		}
		b.WriteString("\n")
		b.WriteString(a.URL)
	}

	return &discordgo.MessageSend{
		Content: truncate(b.String(), maxContentLength),
		Embeds:  embeds,
	}
}

func itemEmbed(item model.MediaItem) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Description: item.Caption}
	switch item.Kind {
	case model.MediaText:
	case model.MediaPhoto, model.MediaAnimation:
		embed.Image = &discordgo.MessageEmbedImage{URL: item.ContentRef}
	default:
		embed.Title = string(item.Kind)
		embed.URL = item.ContentRef
	}
	return embed
}

// groupPayloads renders a batch as messages of up to ten embeds each, in
// item order.
func groupPayloads(items []model.MediaItem) []*discordgo.MessageSend {
	var out []*discordgo.MessageSend
	for _, chunk := range utils.Chunk(items, maxEmbeds) {
		embeds := make([]*discordgo.MessageEmbed, len(chunk))
		for i, item := range chunk {
			embeds[i] = itemEmbed(item)
		}
		out = append(out, &discordgo.MessageSend{Embeds: embeds})
	}
	return out
}
