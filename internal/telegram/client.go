// Package telegram announces monitoring session lifecycle changes via the
// Telegram Bot API.
//
// Only lifecycle events are sent: a session starting and a session stopping
// with the number of readings it tracked. Readings and summaries are never
// transmitted. Delivery retries with linear backoff.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return newClient(bot, chatIDInt, maxRetries, retryDelayBase), nil
}

func newClient(bot sender, chatID int64, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Client{
		bot:            bot,
		chatID:         chatID,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// SessionStarted announces that emotion detection has started
func (c *Client) SessionStarted(ctx context.Context, sessionID string) error {
	return c.send(ctx, formatStarted(sessionID))
}

// SessionStopped announces that emotion detection has stopped
func (c *Client) SessionStopped(ctx context.Context, sessionID string, tracked int) error {
	return c.send(ctx, formatStopped(sessionID, tracked))
}

func (c *Client) send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if i == c.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("send cancelled after %d attempts: %w", i+1, ctx.Err())
		case <-time.After(c.retryDelayBase * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

func formatStarted(sessionID string) string {
	var b strings.Builder
	b.WriteString("🧠 *Emotion detection started*\n\n")
	b.WriteString(escapeMarkdownV2("We're analyzing facial expressions in real-time."))
	b.WriteString("\n")
	fmt.Fprintf(&b, "🆔 Session: `%s`\n", sessionID)
	return b.String()
}

func formatStopped(sessionID string, tracked int) string {
	var b strings.Builder
	b.WriteString("⏹ *Emotion detection stopped*\n\n")
	fmt.Fprintf(&b, "📊 Tracked %s before reset\n", escapeMarkdownV2(english.Plural(tracked, "recent emotion", "recent emotions")))
	fmt.Fprintf(&b, "🆔 Session: `%s`\n", sessionID)
	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
