package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/akarpov/market-brief/internal/brief"
	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

// Notifier sends the daily brief summary to a Telegram chat
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates new Telegram notifier
func NewNotifier(botToken string, chatID int64) (*Notifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat_id is required")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
	)

	return &Notifier{api: bot, chatID: chatID}, nil
}

// SendBrief sends a formatted daily brief summary
func (n *Notifier) SendBrief(b *brief.DailyBrief) error {
	msg := tgbotapi.NewMessage(n.chatID, formatBrief(b))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send brief: %w", err)
	}

	return nil
}

func formatBrief(b *brief.DailyBrief) string {
	var sb strings.Builder

	healthEmoji := "➖"
	switch b.MarketHealth {
	case models.HealthBullish:
		healthEmoji = "🟢"
	case models.HealthBearish:
		healthEmoji = "🔴"
	}

	fmt.Fprintf(&sb, "*Market Brief — %s*\n", b.Date.Format("2006-01-02"))
	fmt.Fprintf(&sb, "%s Market health: %s\n\n", healthEmoji, b.MarketHealth)

	if b.Summary.TopGainer != nil {
		fmt.Fprintf(&sb, "📈 Top gainer: %s (%+.2f%%)\n",
			b.Summary.TopGainer.Ticker, b.Summary.TopGainer.PctChange)
	}
	if b.Summary.TopLoser != nil {
		fmt.Fprintf(&sb, "📉 Top loser: %s (%+.2f%%)\n",
			b.Summary.TopLoser.Ticker, b.Summary.TopLoser.PctChange)
	}

	fmt.Fprintf(&sb, "\n*Movement causes*\n")
	for _, category := range models.AllCategories {
		items := b.Categorized[category]
		if len(items) == 0 {
			continue
		}
		tickers := make([]string, 0, len(items))
		for _, item := range items {
			tickers = append(tickers, item.Ticker)
		}
		fmt.Fprintf(&sb, "• %s: %s\n", category, strings.Join(tickers, ", "))
	}

	if b.Evaluation != nil {
		fmt.Fprintf(&sb, "\n*Yesterday's predictions*\n")
		fmt.Fprintf(&sb, "Accuracy %.0f%% (%d checked)\n",
			b.Evaluation.Accuracy*100, len(b.Evaluation.Details))
	}

	return sb.String()
}
