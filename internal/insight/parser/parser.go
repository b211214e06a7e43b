// Package parser turns inbound chat text into a stock query or a bot command.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang-chart-insight/internal/insight/dto"
)

// Intent is what an inbound message asks the bot to do.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentQuery
	IntentHelp
	IntentStart
)

var (
	ErrEmptyMessage     = errors.New("empty message")
	ErrMissingTicker    = errors.New("ticker symbol is required")
	ErrInvalidTicker    = errors.New("invalid ticker symbol")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// freeTextPattern matches "AAPL", "$TSLA 1M", "AAPL, 1D" and "msft 1w".
var freeTextPattern = regexp.MustCompile(`^(\$)?([A-Za-z0-9.\-^=]{1,10})(?:\s*[,\s]\s*([0-9]*[A-Za-z]+))?$`)

var (
	// tokenPattern splits command arguments on spaces and commas.
	tokenPattern = regexp.MustCompile(`[^\s,]+`)
	// timeframeShape catches timeframe-looking tokens such as 5Y so they fail loudly
	// instead of being read as the start of a question.
	timeframeShape = regexp.MustCompile(`^[0-9]+[A-Za-z]{1,2}$`)
)

// MaxContextLength caps the free-form question carried after a command, in runes.
const MaxContextLength = 300

var queryCommands = map[string]bool{
	"/stock":   true,
	"/chart":   true,
	"/insight": true,
}

// Command is the parsed form of a message.
type Command struct {
	Intent    Intent
	Ticker    string
	Timeframe dto.Timeframe
	// Context is the question trailing a query command, e.g. "what about earnings".
	Context string
	// Explicit is false for a bare upper-case word, which group chats should not treat as a query.
	Explicit bool
}

// ParseMessage classifies text. Messages that are not addressed to the bot yield IntentUnknown
// and no error; malformed queries yield IntentQuery and one of the Err* values.
func ParseMessage(text string) (Command, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Command{}, ErrEmptyMessage
	}

	if strings.HasPrefix(text, "/") {
		return parseCommand(text)
	}

	m := freeTextPattern.FindStringSubmatch(text)
	if m == nil {
		return Command{Intent: IntentUnknown}, nil
	}
	dollar, symbol, timeframe := m[1] != "", m[2], m[3]

	// A bare word is only a query when it looks like a ticker, so ordinary chatter is ignored.
	if !dollar && timeframe == "" && symbol != strings.ToUpper(symbol) {
		return Command{Intent: IntentUnknown}, nil
	}
	if !dollar && timeframe != "" {
		if _, err := dto.ParseTimeframe(timeframe); err != nil {
			return Command{Intent: IntentUnknown}, nil
		}
	}

	cmd, err := parseQuery(symbol)
	cmd.Explicit = dollar || timeframe != ""
	if err == nil && timeframe != "" {
		cmd.Timeframe, err = parseTimeframeArg(timeframe)
	}
	return cmd, err
}

func parseCommand(text string) (Command, error) {
	tokens := tokenPattern.FindAllStringIndex(text, -1)
	name := strings.ToLower(text[tokens[0][0]:tokens[0][1]])
	// Group chats address commands as /stock@SomeBot.
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}

	switch {
	case name == "/start":
		return Command{Intent: IntentStart, Explicit: true}, nil
	case name == "/help":
		return Command{Intent: IntentHelp, Explicit: true}, nil
	case queryCommands[name]:
		if len(tokens) < 2 {
			return Command{Intent: IntentQuery, Explicit: true}, ErrMissingTicker
		}
		cmd, err := parseQuery(text[tokens[1][0]:tokens[1][1]])
		cmd.Explicit = true
		if err != nil {
			return cmd, err
		}

		rest := tokens[2:]
		if len(rest) > 0 {
			arg := text[rest[0][0]:rest[0][1]]
			if tf, err := dto.ParseTimeframe(arg); err == nil {
				cmd.Timeframe = tf
				rest = rest[1:]
			} else if timeframeShape.MatchString(arg) {
				return cmd, fmt.Errorf("%w: %q", ErrInvalidTimeframe, arg)
			}
		}
		if len(rest) > 0 {
			cmd.Context = truncateContext(strings.TrimSpace(text[rest[0][0]:]))
		}
		return cmd, nil
	default:
		return Command{Intent: IntentUnknown, Explicit: true}, nil
	}
}

func parseQuery(symbol string) (Command, error) {
	cmd := Command{
		Intent:    IntentQuery,
		Ticker:    strings.ToUpper(strings.TrimPrefix(symbol, "$")),
		Timeframe: dto.DefaultTimeframe,
	}
	if !dto.ValidTicker(cmd.Ticker) {
		return cmd, fmt.Errorf("%w: %q", ErrInvalidTicker, symbol)
	}
	return cmd, nil
}

func parseTimeframeArg(arg string) (dto.Timeframe, error) {
	tf, err := dto.ParseTimeframe(arg)
	if err != nil {
		return dto.DefaultTimeframe, fmt.Errorf("%w: %q", ErrInvalidTimeframe, arg)
	}
	return tf, nil
}

func truncateContext(s string) string {
	if utf8.RuneCountInString(s) <= MaxContextLength {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:MaxContextLength]))
}

// Usage is the help text listing the accepted query forms.
func Usage() string {
	tfs := make([]string, 0, len(dto.Timeframes))
	for _, tf := range dto.Timeframes {
		tfs = append(tfs, string(tf))
	}
	return fmt.Sprintf(`Send me a ticker and I'll reply with its chart and an AI analysis.

Examples:
/stock AAPL
/stock TSLA 1W
/stock NVDA 1W what about earnings?
AAPL, 1D
$MSFT 1M

Timeframes: %s (default %s)`, strings.Join(tfs, ", "), dto.DefaultTimeframe)
}
