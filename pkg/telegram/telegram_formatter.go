package telegram

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/utils"
)

const (
	MaxMessageLength = 4096
	MaxCaptionLength = 1024
)

var (
	headingPattern = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+?)[ \t]*#*$`)
	boldPattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	bulletPattern  = regexp.MustCompile(`(?m)^([ \t]*)[-*+][ \t]+`)
)

// FormatInsightMessage renders the analysis reply for one request.
func FormatInsightMessage(ticker string, timeframe dto.Timeframe, insight *dto.Insight, analyzedAt time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Chart Analysis for %s (%s)*\n\n", ticker, timeframe))
	sb.WriteString(NormalizeMarkdown(insight.Summary))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("📅 _Analyzed: %s_", utils.PrettyDate(analyzedAt)))
	return sb.String()
}

// FormatChartCaption is the short caption used when the analysis does not fit under the photo.
func FormatChartCaption(ticker string, timeframe dto.Timeframe) string {
	return fmt.Sprintf("📈 *%s* %s chart", ticker, timeframe)
}

func FormatAckMessage(ticker string, timeframe dto.Timeframe) string {
	return fmt.Sprintf("⏳ Analyzing %s (%s) chart, this usually takes under a minute...", ticker, timeframe)
}

func FormatWelcomeMessage(usage string) string {
	return "👋 Hi! I'm a chart insight bot.\n\n" + usage
}

// NormalizeMarkdown rewrites the CommonMark the models tend to produce into the legacy
// Markdown dialect Telegram accepts: **bold** becomes *bold*, headings become bold lines
// and list markers become bullets.
func NormalizeMarkdown(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	text = headingPattern.ReplaceAllString(text, "*$1*")
	text = boldPattern.ReplaceAllString(text, "*$1*")
	text = bulletPattern.ReplaceAllString(text, "$1• ")
	text = strings.ReplaceAll(text, "__", "_")
	return text
}

// SplitMessage splits text into chunks of at most maxLen UTF-16 code units, the unit Telegram
// counts message length in. It prefers paragraph breaks, then line breaks, then spaces, and
// only cuts inside a word when nothing else fits.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	for UTF16Len(text) > maxLen {
		end := prefixWithin(text, maxLen)
		if end == 0 {
			_, end = utf8.DecodeRuneInString(text)
		}
		cut := lastBreak(text[:end])
		if chunk := strings.TrimSpace(text[:cut]); chunk != "" {
			parts = append(parts, chunk)
		}
		text = strings.TrimLeft(text[cut:], " \n")
	}
	if rest := strings.TrimSpace(text); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// lastBreak returns the byte offset just past the last separator in window.
func lastBreak(window string) int {
	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return idx + len(sep)
		}
	}
	return len(window)
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}
	return n
}

// prefixWithin returns the byte length of the longest prefix of s that fits in limit UTF-16 units.
func prefixWithin(s string, limit int) int {
	units := 0
	for i, r := range s {
		units += max(utf16.RuneLen(r), 1)
		if units > limit {
			return i
		}
	}
	return len(s)
}

// TruncateCaption shortens text to the photo caption limit.
func TruncateCaption(text string) string {
	if FitsCaption(text) {
		return text
	}
	return text[:prefixWithin(text, MaxCaptionLength-1)] + "…"
}

// FitsCaption reports whether text can be sent as a photo caption.
func FitsCaption(text string) bool {
	return UTF16Len(text) <= MaxCaptionLength
}
