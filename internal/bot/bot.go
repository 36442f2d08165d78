package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/wonny/fairvalue/internal/analysis"
	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/internal/export"
	"github.com/wonny/fairvalue/internal/external/telegram"
	"github.com/wonny/fairvalue/internal/ratios"
	"github.com/wonny/fairvalue/internal/report"
	"github.com/wonny/fairvalue/pkg/logger"
)

// Replies sent by the bot
const (
	MsgMissingTickers = "❗Please provide tickers. Example: /analize GOOGL,AAPL"
	MsgNoValidData    = "❗Could not retrieve valid data for the tickers provided."
	MsgUnknownCommand = "❓ Sorry, I don't have information on that ratio."
	MsgInternalError  = "❗Something went wrong while analyzing. Please try again later."
)

// Messenger delivers replies. *telegram.Client satisfies it.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, markdown bool) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}

// Analyzer values a raw ticker list. *analysis.Analyzer satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, raw string, progress func(ratios.Progress)) (*analysis.Report, error)
}

// Poller streams updates until ctx ends. *telegram.Client satisfies it.
type Poller interface {
	Poll(ctx context.Context, timeout time.Duration, handler func(telegram.Update)) error
}

// Bot dispatches chat commands
// ⭐ SSOT: 채팅 명령 처리는 여기서만
type Bot struct {
	messenger Messenger
	analyzer  Analyzer
	logger    *logger.Logger
	now       func() time.Time

	wg sync.WaitGroup
}

// New creates a bot
func New(messenger Messenger, analyzer Analyzer, log *logger.Logger) *Bot {
	return &Bot{
		messenger: messenger,
		analyzer:  analyzer,
		logger:    log.WithField("module", "bot"),
		now:       time.Now,
	}
}

// Run polls updates and handles each in its own goroutine.
// It returns after ctx is cancelled and in-flight handlers finish.
func (b *Bot) Run(ctx context.Context, poller Poller, pollTimeout time.Duration) error {
	b.logger.Info("🤖 Bot is running")

	err := poller.Poll(ctx, pollTimeout, func(u telegram.Update) {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.HandleUpdate(ctx, u)
		}()
	})

	b.wg.Wait()
	b.logger.Info("Bot stopped")
	return err
}

// HandleUpdate processes one update synchronously
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(map[string]interface{}{
				"update_id": u.UpdateID,
				"panic":     r,
			}).Error("Panic recovered in update handler")
		}
	}()

	if u.Message == nil {
		return
	}
	cmd, args, ok := ParseCommand(u.Message.Text)
	if !ok {
		return
	}
	chatID := u.Message.Chat.ID

	b.logger.WithFields(map[string]interface{}{
		"chat_id": chatID,
		"command": cmd,
	}).Info("✅ Command received")

	switch cmd {
	case "start":
		b.reply(ctx, chatID, report.WelcomeText(), false)
	case "help":
		b.reply(ctx, chatID, report.HelpText(), false)
	case "analize", "analyze":
		b.analyze(ctx, chatID, args, false)
	case "export":
		b.analyze(ctx, chatID, args, true)
	default:
		if text, found := report.Explain(cmd); found {
			b.reply(ctx, chatID, text, true)
			return
		}
		b.reply(ctx, chatID, MsgUnknownCommand, false)
	}
}

// ParseCommand splits "/analize@FairBot GOOGL,AAPL" into ("analize", "GOOGL,AAPL").
// ok is false for text that is not a command.
func ParseCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, rest = text[:i], text[i:]
	}
	head, _, _ = strings.Cut(strings.TrimPrefix(head, "/"), "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

func (b *Bot) analyze(ctx context.Context, chatID int64, args string, withCSV bool) {
	if args == "" {
		b.reply(ctx, chatID, MsgMissingTickers, false)
		return
	}

	rep, err := b.analyzer.Analyze(ctx, args, nil)
	if err != nil {
		b.reply(ctx, chatID, errorReply(err), false)
		if !isUserError(err) {
			b.logger.WithError(err).WithField("chat_id", chatID).Error("Analysis failed")
		}
		return
	}

	for _, chunk := range report.Chunk(report.FormatText(rep.Valuation), report.MaxMessageLength) {
		b.reply(ctx, chatID, chunk, true)
	}
	if note := report.FormatFailures(rep.Failures); note != "" {
		b.reply(ctx, chatID, note, false)
	}

	if withCSV {
		data, err := export.Bytes(rep.Valuation)
		if err != nil {
			b.logger.WithError(err).Error("CSV export failed")
			b.reply(ctx, chatID, MsgInternalError, false)
			return
		}
		name := export.FileName(b.now())
		if err := b.messenger.SendDocument(ctx, chatID, name, data, "📎 "+strings.Join(rep.Tickers(), ", ")); err != nil {
			b.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send CSV")
		}
	}
}

// reply sends text; Markdown rejected by Telegram is resent as plain text
func (b *Bot) reply(ctx context.Context, chatID int64, text string, markdown bool) {
	var err error
	if markdown {
		err = telegram.SendMarkdown(ctx, b.messenger, chatID, text)
	} else {
		err = b.messenger.SendMessage(ctx, chatID, text, false)
	}
	if err != nil {
		b.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func isUserError(err error) bool {
	return errors.Is(err, contracts.ErrNoValidData) ||
		errors.Is(err, contracts.ErrNoTickers) ||
		errors.Is(err, contracts.ErrTooManyTickers) ||
		errors.Is(err, contracts.ErrInvalidTicker)
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, contracts.ErrNoTickers):
		return MsgMissingTickers
	case errors.Is(err, contracts.ErrNoValidData):
		return MsgNoValidData
	case errors.Is(err, contracts.ErrTooManyTickers), errors.Is(err, contracts.ErrInvalidTicker):
		return fmt.Sprintf("❗%s", err)
	default:
		return MsgInternalError
	}
}
