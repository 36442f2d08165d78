package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/fairvalue/internal/analysis"
	"github.com/wonny/fairvalue/internal/external/telegram"
	"github.com/wonny/fairvalue/internal/ratios"
	"github.com/wonny/fairvalue/internal/report"
	"github.com/wonny/fairvalue/pkg/logger"
)

const digestHeader = "🗓 *Scheduled valuation digest*"

// Analyzer values a raw ticker list. *analysis.Analyzer satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, raw string, progress func(ratios.Progress)) (*analysis.Report, error)
}

// DigestJob values a fixed basket and posts the summary to chats
type DigestJob struct {
	analyzer Analyzer
	sender   telegram.Sender
	schedule string
	tickers  string
	chatIDs  []int64
	logger   *logger.Logger
}

// NewDigestJob creates a new digest job
func NewDigestJob(analyzer Analyzer, sender telegram.Sender, schedule, tickers string, chatIDs []int64, log *logger.Logger) *DigestJob {
	return &DigestJob{
		analyzer: analyzer,
		sender:   sender,
		schedule: schedule,
		tickers:  tickers,
		chatIDs:  chatIDs,
		logger:   log.WithField("job", "valuation_digest"),
	}
}

// Name returns the job name
func (j *DigestJob) Name() string {
	return "valuation_digest"
}

// Schedule returns the cron schedule
func (j *DigestJob) Schedule() string {
	return j.schedule
}

// Run analyzes the basket and sends it to every chat.
// It fails only if the analysis fails or no chat received the digest,
// so a retry never re-sends to chats that already got it.
func (j *DigestJob) Run(ctx context.Context) error {
	rep, err := j.analyzer.Analyze(ctx, j.tickers, nil)
	if err != nil {
		return fmt.Errorf("digest analysis: %w", err)
	}

	text := digestHeader + "\n\n" + report.FormatText(rep.Valuation)
	if note := report.FormatFailures(rep.Failures); note != "" {
		text += "\n\n" + note
	}
	chunks := report.Chunk(text, report.MaxMessageLength)

	delivered := 0
	var lastErr error
	for _, chatID := range j.chatIDs {
		if err := j.send(ctx, chatID, chunks); err != nil {
			lastErr = err
			j.logger.WithError(err).WithField("chat_id", chatID).Warn("Digest delivery failed")
			continue
		}
		delivered++
	}

	j.logger.WithRun(rep.RunID).WithFields(map[string]interface{}{
		"tickers":   len(rep.Rows),
		"chats":     len(j.chatIDs),
		"delivered": delivered,
	}).Info("Digest sent")

	if delivered == 0 && lastErr != nil {
		return fmt.Errorf("digest delivery: %w", lastErr)
	}
	return nil
}

func (j *DigestJob) send(ctx context.Context, chatID int64, chunks []string) error {
	for _, chunk := range chunks {
		if err := telegram.SendMarkdown(ctx, j.sender, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}
