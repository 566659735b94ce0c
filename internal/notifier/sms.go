package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultSMSEndpoint is the SMS gateway used when none is configured.
const DefaultSMSEndpoint = "https://api.smsmobileapi.com/sendsms/"

// SMSConfig holds the SMS gateway settings.
type SMSConfig struct {
	Endpoint string
	APIKey   string
	To       string
	Message  string
}

// SMSNotifier posts a text message announcing the export.
type SMSNotifier struct {
	cfg    SMSConfig
	client *resty.Client
}

// NewSMSNotifier creates an SMSNotifier.
func NewSMSNotifier(cfg SMSConfig) (*SMSNotifier, error) {
	if cfg.APIKey == "" || cfg.To == "" {
		return nil, fmt.Errorf("%w: sms api key and recipient are required", ErrNotConfigured)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultSMSEndpoint
	}
	if cfg.Message == "" {
		cfg.Message = "Your judgments export has been emailed."
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &SMSNotifier{cfg: cfg, client: client}, nil
}

// Notify implements Notifier.
func (n *SMSNotifier) Notify(ctx context.Context, a *Attachment) error {
	res, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"recipients": n.cfg.To,
			"message":    n.cfg.Message,
			"apikey":     n.cfg.APIKey,
		}).
		Post(n.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("sending sms: status %d: %s", res.StatusCode(), strings.TrimSpace(res.String()))
	}
	return nil
}
