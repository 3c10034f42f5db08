package notify

import (
	"fmt"
	"html"
	"mime"
	"mime/quotedprintable"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

// Videos shown per channel in the email report.
const emailTopVideos = 10

// EmailSender delivers the HTML report via SMTP (Gmail app-password setup).
type EmailSender struct {
	host     string
	port     string
	from     string
	password string
	to       string
}

// NewEmailSender creates a sender for the given SMTP account.
func NewEmailSender(host, port, from, password, to string) *EmailSender {
	return &EmailSender{host: host, port: port, from: from, password: password, to: to}
}

// Send builds and sends the report email. The message carries a plain-text
// part and the styled HTML part as multipart/alternative.
func (s *EmailSender) Send(report *model.Report) error {
	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	log.Info().Str("to", s.to).Msg("sending email report")
	if err := smtp.SendMail(addr, auth, s.from, []string{s.to}, s.buildMessage(report)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	log.Info().Msg("email report sent")
	return nil
}

// buildMessage assembles the full RFC 5322 message. The subject carries
// emoji so it goes out Q-encoded, and the UTF-8 bodies are quoted-printable:
// smtp.SendMail never negotiates 8BITMIME, so everything on the wire must be
// 7bit-clean.
func (s *EmailSender) buildMessage(report *model.Report) []byte {
	subject := mime.QEncoding.Encode("utf-8",
		fmt.Sprintf("🎯 YouTube Competitor Report — %d Outperforming Videos (%s)",
			report.TotalOutperforming, report.GeneratedAt.Format("January 2, 2006")))

	const boundary = "ytmonitor-report"

	var b strings.Builder
	fmt.Fprintf(&b, "From: UAbility Monitor <%s>\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", s.to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	b.WriteString(qpEncode(buildPlainReport(report)))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	b.WriteString(qpEncode(buildHTMLReport(report)))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// qpEncode renders s as quoted-printable. Writes to a strings.Builder cannot
// fail, so the writer errors are ignored.
func qpEncode(s string) string {
	var b strings.Builder
	w := quotedprintable.NewWriter(&b)
	_, _ = w.Write([]byte(s))
	_ = w.Close()
	return b.String()
}

func buildPlainReport(report *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "YouTube Competitor Report for %s\n", report.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Found %d outperforming videos.\n", report.TotalOutperforming)

	for _, result := range report.Results {
		fmt.Fprintf(&b, "\n%s (%s):\n", result.ChannelName, result.Handle)
		fmt.Fprintf(&b, "  Average views: %d\n", result.AvgViews)
		for i, video := range result.Outperforming {
			if i >= emailTopVideos {
				break
			}
			fmt.Fprintf(&b, "  - %s (%s views, %s above avg)\n",
				video.Title, FormatViews(video.Views), FormatRatio(video.PerformanceRatio))
			fmt.Fprintf(&b, "    %s\n", video.Link)
		}
	}
	return b.String()
}

func buildHTMLReport(report *model.Report) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head>` +
		`<body style="margin:0; padding:0; background-color:#0f0f0f; font-family:'Segoe UI', Arial, sans-serif;">` +
		`<div style="max-width:700px; margin:20px auto; background-color:#1a1a2e; border-radius:12px; overflow:hidden;">`)

	// Header
	fmt.Fprintf(&b, `<div style="background:linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding:30px; text-align:center;">`+
		`<h1 style="color:#ffffff; font-size:24px; margin:0 0 8px 0;">🎯 YouTube Competitor Report</h1>`+
		`<p style="color:#e0d4f7; font-size:14px; margin:0;">%s &bull; UAbility Competitive Intelligence</p></div>`,
		report.GeneratedAt.Format("January 2, 2006"))

	// Summary stats
	fmt.Fprintf(&b, `<div style="display:flex; padding:20px 30px; background-color:#16213e; border-bottom:1px solid #2a2a4a;">`+
		`<div style="flex:1; text-align:center; padding:10px;">`+
		`<div style="color:#667eea; font-size:28px; font-weight:700;">%d</div>`+
		`<div style="color:#8888aa; font-size:12px; text-transform:uppercase;">Channels Analyzed</div></div>`+
		`<div style="flex:1; text-align:center; padding:10px; border-left:1px solid #2a2a4a;">`+
		`<div style="color:#f093fb; font-size:28px; font-weight:700;">%d</div>`+
		`<div style="color:#8888aa; font-size:12px; text-transform:uppercase;">Outperforming Videos</div></div></div>`,
		len(report.Results), report.TotalOutperforming)

	b.WriteString(`<div style="padding:20px 30px;">`)

	if len(report.Results) == 0 {
		b.WriteString(`<div style="text-align:center; padding:40px; color:#8888aa;">` +
			`<p style="font-size:18px;">No outperforming videos found today.</p>` +
			`<p style="font-size:13px;">All competitor channels are performing at baseline.</p></div>`)
	}

	for _, result := range report.Results {
		fmt.Fprintf(&b, `<div style="margin-bottom:25px; border:1px solid #2a2a4a; border-radius:10px; overflow:hidden; background-color:#16213e;">`+
			`<div style="padding:15px 20px; background-color:#1a1a3e; border-bottom:1px solid #2a2a4a;">`+
			`<h2 style="color:#e0e0ff; font-size:16px; margin:0 0 4px 0;">📺 %s</h2>`+
			`<p style="color:#6a6a8a; font-size:12px; margin:0;">%s &bull; %s subscribers &bull; Avg: %s views/video</p></div>`+
			`<div style="padding:10px 15px;">`,
			html.EscapeString(result.ChannelName), html.EscapeString(result.Handle),
			FormatViews(result.Subscribers), FormatViews(result.AvgViews))

		for i, video := range result.Outperforming {
			if i >= emailTopVideos {
				break
			}
			b.WriteString(videoCardHTML(video))
		}

		if remaining := len(result.Outperforming) - emailTopVideos; remaining > 0 {
			fmt.Fprintf(&b, `<p style="color:#6a6a8a; font-size:12px; text-align:center; padding:5px;">... and %d more outperforming videos</p>`,
				remaining)
		}

		b.WriteString(`</div></div>`)
	}

	b.WriteString(`</div>` +
		`<div style="padding:20px 30px; background-color:#0f0f1e; text-align:center; border-top:1px solid #2a2a4a;">` +
		`<p style="color:#555577; font-size:11px; margin:0;">Automated by UAbility YouTube Monitor &bull; Powered by ScrapingDog API</p>` +
		`</div></div></body></html>`)

	return b.String()
}

func videoCardHTML(video model.ScoredVideo) string {
	ratioColor := "#3498db"
	switch {
	case video.PerformanceRatio >= 2.0:
		ratioColor = "#27ae60"
	case video.PerformanceRatio >= 1.5:
		ratioColor = "#f39c12"
	}

	recentBadge := ""
	if video.IsRecent {
		recentBadge = `<span style="background:#27ae60; color:#fff; font-size:10px; padding:2px 6px; border-radius:3px; margin-left:6px;">RECENT</span>`
	}

	return fmt.Sprintf(`<div style="padding:10px; margin:5px 0; background-color:#1e2747; border-radius:8px; border-left:3px solid %s;">`+
		`<a href=%q style="color:#c8c8ff; font-size:13px; text-decoration:none; font-weight:600; display:block;">%s</a>`+
		`<div style="margin-top:5px;">`+
		`<span style="color:#8888aa; font-size:11px;">👁 %s views</span> `+
		`<span style="color:%s; font-size:11px; font-weight:700;">%s above avg</span> `+
		`<span style="color:#8888aa; font-size:11px;">🕐 %s</span>%s</div></div>`,
		ratioColor, video.Link, html.EscapeString(video.Title),
		FormatViews(video.Views), ratioColor, FormatRatio(video.PerformanceRatio),
		html.EscapeString(video.PublishedTime), recentBadge)
}
