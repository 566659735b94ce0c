package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPRenderer fetches pages with a plain GET. It only sees server-rendered
// markup; use BrowserRenderer when results are built client-side.
type HTTPRenderer struct {
	client *resty.Client
}

// NewHTTPRenderer creates an HTTPRenderer. Zero values select UserAgent and Timeout.
func NewHTTPRenderer(userAgent string, timeout time.Duration) *HTTPRenderer {
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = Timeout
	}

	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetTimeout(timeout)

	return &HTTPRenderer{client: client}
}

// Render implements Renderer.
func (r *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	res, err := r.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode())
	}
	return res.String(), nil
}
