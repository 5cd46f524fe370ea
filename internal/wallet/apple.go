package wallet

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

// ErrNoDevices reports that a pass serial has no registered devices; the
// fan-out treats it as a skip, not a failure.
var ErrNoDevices = errors.New("no registered devices")

// AppleConfig holds Apple Wallet / APNs settings.
type AppleConfig struct {
	PassTypeID string
	APNsBase   string
	APNsToken  string
	TimeoutMS  int
}

// ApplePush delivers pass-update pushes and visible alerts to devices.
type ApplePush interface {
	// NotifyPassUpdate sends the empty push that makes a device re-fetch
	// its pass.
	NotifyPassUpdate(ctx context.Context, pushToken string) error
	// Alert sends a visible notification to a device.
	Alert(ctx context.Context, pushToken, title, body string) error
}

// AppleHTTPClient is the APNs implementation.
type AppleHTTPClient struct {
	cfg    AppleConfig
	client *http.Client
}

// NewAppleHTTPClient builds the APNs client.
func NewAppleHTTPClient(cfg AppleConfig) (*AppleHTTPClient, error) {
	if cfg.APNsBase == "" || cfg.PassTypeID == "" {
		return nil, fmt.Errorf("%w: apns_base and pass_type_id required", ErrConfigInvalid)
	}
	timeout := 15 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &AppleHTTPClient{cfg: cfg, client: &http.Client{Timeout: timeout}}, nil
}

// NotifyPassUpdate sends the empty pass re-fetch push.
func (c *AppleHTTPClient) NotifyPassUpdate(ctx context.Context, pushToken string) error {
	// PassKit update pushes carry an empty payload; the topic is the
	// pass type identifier.
	return c.post(ctx, pushToken, map[string]interface{}{"aps": map[string]interface{}{}})
}

// Alert sends a visible notification to a device.
func (c *AppleHTTPClient) Alert(ctx context.Context, pushToken, title, body string) error {
	return c.post(ctx, pushToken, map[string]interface{}{
		"aps": map[string]interface{}{
			"alert": map[string]string{
				"title": title,
				"body":  body,
			},
		},
	})
}

func (c *AppleHTTPClient) post(ctx context.Context, pushToken string, payload interface{}) error {
	if pushToken == "" {
		return fmt.Errorf("%w: push token required", ErrRequestFailed)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	endpoint := fmt.Sprintf("%s/3/device/%s", c.cfg.APNsBase, pushToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apns-topic", c.cfg.PassTypeID)
	if c.cfg.APNsToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APNsToken)
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
