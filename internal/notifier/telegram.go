package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTelegramAPI is the Bot API prefix; the bot token is appended to it.
const DefaultTelegramAPI = "https://api.telegram.org/bot"

// TelegramConfig holds the Telegram Bot API settings.
type TelegramConfig struct {
	APIBase  string
	BotToken string
	ChatID   string
}

// TelegramNotifier uploads the workbook to a Telegram chat.
type TelegramNotifier struct {
	cfg    TelegramConfig
	client *resty.Client
}

// NewTelegramNotifier creates a TelegramNotifier.
func NewTelegramNotifier(cfg TelegramConfig) (*TelegramNotifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: telegram bot token is required", ErrNotConfigured)
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("%w: telegram chat ID is required", ErrNotConfigured)
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultTelegramAPI
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &TelegramNotifier{cfg: cfg, client: client}, nil
}

// Notify implements Notifier. It sends the attachment with sendDocument.
func (n *TelegramNotifier) Notify(ctx context.Context, a *Attachment) error {
	url := fmt.Sprintf("%s%s/sendDocument", n.cfg.APIBase, n.cfg.BotToken)

	res, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": n.cfg.ChatID,
			"caption": caption(a),
		}).
		SetFileReader("document", a.Filename, bytes.NewReader(a.Data)).
		Post(url)
	if err != nil {
		return fmt.Errorf("sending telegram document: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", res.StatusCode(), strings.TrimSpace(res.String()))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		return fmt.Errorf("parsing telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

func caption(a *Attachment) string {
	if a.Records == 1 {
		return "1 judgment"
	}
	return fmt.Sprintf("%d judgments", a.Records)
}
