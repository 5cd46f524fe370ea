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

var (
	ErrConfigInvalid  = errors.New("wallet config invalid")
	ErrRequestFailed  = errors.New("wallet request failed")
	ErrObjectNotFound = errors.New("wallet object not found")
)

// GoogleConfig holds Google Wallet issuer settings.
type GoogleConfig struct {
	APIBase   string
	IssuerID  string
	ClassID   string
	Token     string
	TimeoutMS int
}

// CardState is the loyalty snapshot pushed into a wallet object.
type CardState struct {
	SerialNumber string
	HolderName   string
	Stamps       int
	MaxStamps    int
}

// GooglePass maintains loyalty objects on the Google Wallet side.
type GooglePass interface {
	// UpsertObject creates or refreshes the loyalty object for a card.
	UpsertObject(ctx context.Context, state CardState) error
	// AddMessage appends a visible message to a card's loyalty object.
	// Returns ErrObjectNotFound when the holder never saved the pass.
	AddMessage(ctx context.Context, serialNumber, title, body string) error
}

// GoogleHTTPClient is the Google Wallet objects API implementation.
type GoogleHTTPClient struct {
	cfg    GoogleConfig
	client *http.Client
}

// NewGoogleHTTPClient builds the Google Wallet client.
func NewGoogleHTTPClient(cfg GoogleConfig) (*GoogleHTTPClient, error) {
	if cfg.APIBase == "" || cfg.IssuerID == "" {
		return nil, fmt.Errorf("%w: api_base and issuer_id required", ErrConfigInvalid)
	}
	timeout := 15 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &GoogleHTTPClient{cfg: cfg, client: &http.Client{Timeout: timeout}}, nil
}

func (c *GoogleHTTPClient) objectID(serialNumber string) string {
	return fmt.Sprintf("%s.%s", c.cfg.IssuerID, serialNumber)
}

// UpsertObject creates or refreshes the loyalty object for a card.
func (c *GoogleHTTPClient) UpsertObject(ctx context.Context, state CardState) error {
	payload := map[string]interface{}{
		"id":      c.objectID(state.SerialNumber),
		"classId": c.cfg.ClassID,
		"state":   "ACTIVE",
		"accountName": state.HolderName,
		"loyaltyPoints": map[string]interface{}{
			"label": "Sellos",
			"balance": map[string]interface{}{
				"string": fmt.Sprintf("%d/%d", state.Stamps, state.MaxStamps),
			},
		},
	}
	endpoint := fmt.Sprintf("%s/loyaltyObject/%s", c.cfg.APIBase, c.objectID(state.SerialNumber))
	err := c.do(ctx, http.MethodPut, endpoint, payload)
	if errors.Is(err, ErrObjectNotFound) {
		// First save: create instead of update.
		return c.do(ctx, http.MethodPost, c.cfg.APIBase+"/loyaltyObject", payload)
	}
	return err
}

// AddMessage appends a visible message to a card's loyalty object.
func (c *GoogleHTTPClient) AddMessage(ctx context.Context, serialNumber, title, body string) error {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"header": title,
			"body":   body,
		},
	}
	endpoint := fmt.Sprintf("%s/loyaltyObject/%s/addMessage", c.cfg.APIBase, c.objectID(serialNumber))
	return c.do(ctx, http.MethodPost, endpoint, payload)
}

func (c *GoogleHTTPClient) do(ctx context.Context, method, endpoint string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrObjectNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return nil
}
