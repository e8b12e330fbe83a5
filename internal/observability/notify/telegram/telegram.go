// Package telegram delivers task failure alerts to an operations chat via the
// Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/observability/notify"
)

// Config captures the subset of Bot API behaviour we need.
type Config struct {
	BotToken string
	ChatID   int64
	// Sender overrides the Bot API client, for tests.
	Sender MessageSender
}

// MessageSender is the slice of tgbotapi.BotAPI used by the sink.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sink posts formatted failure alerts to a fixed operations chat.
type Sink struct {
	chatID int64
	sender MessageSender
}

// NewSink builds a Telegram failure sink. Callers should pass a validated config.
func NewSink(cfg Config) (*Sink, error) {
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}

	sender := cfg.Sender
	if sender == nil {
		if strings.TrimSpace(cfg.BotToken) == "" {
			return nil, errors.New("telegram bot token is required")
		}
		bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		sender = bot
	}

	return &Sink{chatID: cfg.ChatID, sender: sender}, nil
}

// SendTaskFailure posts a formatted message to the operations chat.
func (s *Sink) SendTaskFailure(_ context.Context, payload notify.TaskFailurePayload) error {
	msg := tgbotapi.NewMessage(s.chatID, formatMessage(payload))
	if _, err := s.sender.Send(msg); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	return nil
}

func formatMessage(payload notify.TaskFailurePayload) string {
	timestamp := payload.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var text strings.Builder
	text.WriteString("Batch lookup failed")
	if payload.TaskID != "" {
		text.WriteString(" [")
		text.WriteString(payload.TaskID)
		text.WriteByte(']')
	}
	text.WriteByte('\n')
	appendField(&text, "Account", payload.Account)
	if payload.TotalPhones > 0 {
		appendField(&text, "Phones", fmt.Sprintf("%d", payload.TotalPhones))
	}
	appendField(&text, "Error", payload.Error)
	appendField(&text, "Timestamp", timestamp.UTC().Format(time.RFC3339))
	return text.String()
}

func appendField(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(value)
	text.WriteByte('\n')
}

var _ notify.FailureSink = (*Sink)(nil)
