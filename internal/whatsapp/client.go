package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("whatsapp config invalid")
	ErrRequestFailed   = errors.New("whatsapp request failed")
	ErrResponseInvalid = errors.New("whatsapp response invalid")
)

// Config holds the transport connection settings.
type Config struct {
	APIBase   string
	Token     string
	Instance  string
	TimeoutMS int
}

// TemplateMessage is one outbound templated message.
type TemplateMessage struct {
	To       string            // normalized destination phone
	Template string            // provider template identifier
	Params   map[string]string // template variable substitutions
}

// Sender dispatches messages to a client phone.
type Sender interface {
	SendTemplate(ctx context.Context, message TemplateMessage) error
	SendText(ctx context.Context, to, text string) error
}

// HTTPClient talks to an Evolution-API style WhatsApp gateway.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient builds the transport client.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.APIBase == "" {
		return nil, fmt.Errorf("%w: api_base required", ErrConfigInvalid)
	}
	timeout := 15 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// SendTemplate posts one templated message to the gateway.
func (c *HTTPClient) SendTemplate(ctx context.Context, message TemplateMessage) error {
	if message.To == "" || message.Template == "" {
		return fmt.Errorf("%w: destination and template required", ErrRequestFailed)
	}
	payload := map[string]interface{}{
		"number":   message.To,
		"template": message.Template,
	}
	if len(message.Params) > 0 {
		payload["params"] = message.Params
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	endpoint := fmt.Sprintf("%s/message/sendTemplate/%s", c.cfg.APIBase, c.cfg.Instance)
	return c.post(ctx, endpoint, raw)
}

// SendText posts one plain text message to the gateway.
func (c *HTTPClient) SendText(ctx context.Context, to, text string) error {
	if to == "" || text == "" {
		return fmt.Errorf("%w: destination and text required", ErrRequestFailed)
	}
	raw, err := json.Marshal(map[string]interface{}{
		"number": to,
		"text":   text,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	endpoint := fmt.Sprintf("%s/message/sendText/%s", c.cfg.APIBase, c.cfg.Instance)
	return c.post(ctx, endpoint, raw)
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, raw []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("apikey", c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return nil
}
