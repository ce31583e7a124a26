package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"gig-scraper/internal/config"
	"gig-scraper/internal/models/domain"
	"gig-scraper/internal/utils/logger/sl"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes a short per-run summary to the configured admin
// chats. Send failures are logged and swallowed: reporting must never affect
// the scrape pipeline.
type TelegramNotifier struct {
	logger  *slog.Logger
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

// NewTelegram returns nil when no token is configured; callers treat a nil
// notifier as disabled.
func NewTelegram(logger *slog.Logger, cfg config.NotifyConfig) (*TelegramNotifier, error) {
	op := "notify.NewTelegram()"
	log := logger.With(slog.String("op", op))

	if cfg.TgbotApiToken == "" {
		log.Info("telegram notifier disabled, no token configured")
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TgbotApiToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("telegram notifier created", slog.Int("chats", len(cfg.ChatIDs)))
	return &TelegramNotifier{
		logger:  logger,
		bot:     bot,
		chatIDs: cfg.ChatIDs,
	}, nil
}

func (n *TelegramNotifier) NotifyRun(jobName string, results []domain.ScrapeResult) {
	op := "TelegramNotifier.NotifyRun()"
	log := n.logger.With(slog.String("op", op), slog.String("job", jobName))

	text := formatRunSummary(jobName, results)
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			log.Error("failed to send run summary", slog.Int64("chatID", chatID), sl.Err(err))
		}
	}
}

func formatRunSummary(jobName string, results []domain.ScrapeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scrape run finished: %s\n", jobName)
	for _, result := range results {
		fmt.Fprintf(&b, "%s: %d scraped, %d added, %d duplicates",
			result.Provider, result.Scraped, result.Added, result.Duplicated)
		if len(result.Errors) > 0 {
			fmt.Fprintf(&b, ", %d errors", len(result.Errors))
		}
		b.WriteString("\n")
	}
	return b.String()
}
