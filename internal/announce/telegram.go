package announce

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBot is the part of tgbotapi.BotAPI the announcer needs
type TelegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotFactory creates TelegramBot instances (allows mocking)
type BotFactory func(token, apiEndpoint string, client *http.Client) (TelegramBot, error)

var defaultBotFactory BotFactory = func(token, apiEndpoint string, client *http.Client) (TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
	if err != nil {
		return nil, err
	}
	return bot, nil
}

// Telegram posts announcements to a Telegram chat
type Telegram struct {
	token       string
	chatID      int64
	apiEndpoint string
	factory     BotFactory

	mu  sync.Mutex
	bot TelegramBot
}

// NewTelegram creates a Telegram announcer for one chat
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	return NewTelegramWithFactory(token, chatID, tgbotapi.APIEndpoint, defaultBotFactory)
}

// NewTelegramWithFactory creates a Telegram announcer with a custom endpoint and bot factory
func NewTelegramWithFactory(token string, chatID int64, apiEndpoint string, factory BotFactory) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat ID is required")
	}
	return &Telegram{
		token:       token,
		chatID:      chatID,
		apiEndpoint: apiEndpoint,
		factory:     factory,
	}, nil
}

// botAPI connects on first use; creating a BotAPI calls getMe.
func (t *Telegram) botAPI() (TelegramBot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := t.factory(t.token, t.apiEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	t.bot = bot
	return bot, nil
}

// Announce sends the announcement as plain text. The Discord bold markers are
// dropped since the text is not sent with a parse mode.
func (t *Telegram) Announce(ctx context.Context, a Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := t.botAPI()
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, strings.ReplaceAll(Format(a), "**", ""))
	msg.DisableWebPagePreview = true
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
