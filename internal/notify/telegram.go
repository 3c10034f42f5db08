package notify

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

const (
	// Telegram rejects messages over 4096 characters; split a little early.
	telegramMessageLimit = 4000

	// Videos shown per channel in the Telegram message.
	telegramTopVideos = 5

	sectionSeparator = "━━━━━━━━━━━━━━━━━━"
)

// TelegramNotifier sends outperforming-video alerts to a Telegram chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// Send delivers the report as one or more Telegram messages.
func (n *TelegramNotifier) Send(report *model.Report) error {
	message := BuildTelegramMessage(report)

	var firstErr error
	parts := SplitMessage(message, telegramMessageLimit)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(n.chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true

		if _, err := n.api.Send(msg); err != nil {
			log.Error().Err(err).Int("part", i+1).Int("parts", len(parts)).
				Msg("telegram send failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("send telegram message %d/%d: %w", i+1, len(parts), err)
			}
			continue
		}
		log.Info().Int("part", i+1).Int("parts", len(parts)).Msg("telegram message sent")
	}
	return firstErr
}

// BuildTelegramMessage renders the report with Telegram HTML formatting.
func BuildTelegramMessage(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎯 <b>YouTube Competitor Report</b>\n")
	fmt.Fprintf(&b, "📅 %s\n", report.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "📊 %d outperforming videos across %d channels\n\n",
		report.TotalOutperforming, len(report.Results))

	if len(report.Results) == 0 {
		b.WriteString("✅ No outperforming videos found today. All competitors at baseline.")
		return b.String()
	}

	for _, result := range report.Results {
		fmt.Fprintf(&b, "%s\n", sectionSeparator)
		fmt.Fprintf(&b, "📺 <b>%s</b> (%s)\n",
			html.EscapeString(result.ChannelName), html.EscapeString(result.Handle))
		fmt.Fprintf(&b, "   Avg: %s views | %d hits\n\n",
			FormatViews(result.AvgViews), len(result.Outperforming))

		for i, video := range result.Outperforming {
			if i >= telegramTopVideos {
				break
			}
			title := truncateRunes(video.Title, 60)
			recent := ""
			if video.IsRecent {
				recent = " 🆕"
			}
			fmt.Fprintf(&b, "  🔥 <a href=\"%s\">%s</a>%s\n",
				video.Link, html.EscapeString(title), recent)
			fmt.Fprintf(&b, "     👁 %s views | %s above avg\n\n",
				FormatViews(video.Views), FormatRatio(video.PerformanceRatio))
		}

		if remaining := len(result.Outperforming) - telegramTopVideos; remaining > 0 {
			fmt.Fprintf(&b, "   ... and %d more\n\n", remaining)
		}
	}

	fmt.Fprintf(&b, "%s\n", sectionSeparator)
	b.WriteString("🤖 <i>UAbility YouTube Monitor</i>")

	return b.String()
}

// truncateRunes shortens s to at most n runes. Slicing bytes would split a
// multi-byte character and produce invalid UTF-8, which the Telegram API
// rejects outright.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// SplitMessage splits a message that exceeds limit into chunks, breaking on
// channel section separators so HTML tags are never cut mid-entity.
func SplitMessage(message string, limit int) []string {
	if len(message) <= limit {
		return []string{message}
	}

	parts := strings.Split(message, sectionSeparator)
	var messages []string
	current := parts[0]
	for _, part := range parts[1:] {
		if len(current)+len(part)+len(sectionSeparator) > limit {
			messages = append(messages, current)
			current = sectionSeparator + part
		} else {
			current += sectionSeparator + part
		}
	}
	if current != "" {
		messages = append(messages, current)
	}
	return messages
}
