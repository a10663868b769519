package safecheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Config captures the receipt-authenticity API endpoint and credentials.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client adapts the SafeCheck receipt-authenticity API. The API inspects a
// payment receipt document and reports whether its internal structure matches
// a genuine bank original.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CheckReceipt submits a document by URL and returns the service's verdict.
// A nil verdict with nil error means the check was inconclusive, for example
// when the document type is not supported; callers must not treat that as
// confirmed fraud.
func (c *Client) CheckReceipt(ctx context.Context, fileURL string) (*ports.ReceiptVerdict, error) {
	form := url.Values{"url": {fileURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("receipt check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("receipt check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		// The service could not analyze this document type.
		c.logger.Info().Str("url", fileURL).Msg("receipt check inconclusive")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("receipt check: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("receipt check read: %w", err)
	}

	doc := gjson.ParseBytes(body)
	verdict := &ports.ReceiptVerdict{
		StructPassed: doc.Get("struct_passed").Bool(),
		IsOriginal:   doc.Get("is_original").Bool(),
		Color:        doc.Get("color").String(),
		Fields:       map[string]string{},
	}
	doc.Get("fields").ForEach(func(key, value gjson.Result) bool {
		verdict.Fields[key.String()] = value.String()
		return true
	})
	return verdict, nil
}
