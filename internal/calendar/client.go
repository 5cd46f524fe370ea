package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("calendar config invalid")
	ErrRequestFailed   = errors.New("calendar request failed")
	ErrResponseInvalid = errors.New("calendar response invalid")
	ErrEventNotFound   = errors.New("calendar event not found")
)

// Config holds one calendar identity's connection settings.
type Config struct {
	APIBase    string
	Token      string
	CalendarID string
	Attendee   string
	TimeoutMS  int
}

// Event is the payload mirrored into an external calendar.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	ColorID     string
	Attendee    string
}

// API is one external calendar identity.
type API interface {
	CreateEvent(ctx context.Context, event Event) (string, error)
	UpdateEvent(ctx context.Context, eventID string, event Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// HTTPClient talks to the Google Calendar v3 events API.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient builds a calendar client for one identity.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.APIBase == "" || cfg.CalendarID == "" {
		return nil, fmt.Errorf("%w: api_base and calendar_id required", ErrConfigInvalid)
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

type wireEvent struct {
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Start       wireEventTime  `json:"start"`
	End         wireEventTime  `json:"end"`
	ColorID     string         `json:"colorId,omitempty"`
	Attendees   []wireAttendee `json:"attendees,omitempty"`
}

type wireEventTime struct {
	DateTime string `json:"dateTime"`
}

type wireAttendee struct {
	Email string `json:"email"`
}

func (c *HTTPClient) buildWireEvent(event Event) wireEvent {
	wire := wireEvent{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       wireEventTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         wireEventTime{DateTime: event.End.Format(time.RFC3339)},
		ColorID:     event.ColorID,
	}
	attendee := event.Attendee
	if attendee == "" {
		attendee = c.cfg.Attendee
	}
	if attendee != "" {
		wire.Attendees = []wireAttendee{{Email: attendee}}
	}
	return wire
}

// CreateEvent creates a calendar event and returns its id.
func (c *HTTPClient) CreateEvent(ctx context.Context, event Event) (string, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.cfg.APIBase, url.PathEscape(c.cfg.CalendarID))
	body, err := c.do(ctx, http.MethodPost, endpoint, c.buildWireEvent(event))
	if err != nil {
		return "", err
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.ID == "" {
		return "", fmt.Errorf("%w: missing event id", ErrResponseInvalid)
	}
	return result.ID, nil
}

// UpdateEvent replaces an existing calendar event.
func (c *HTTPClient) UpdateEvent(ctx context.Context, eventID string, event Event) error {
	if eventID == "" {
		return ErrEventNotFound
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		c.cfg.APIBase, url.PathEscape(c.cfg.CalendarID), url.PathEscape(eventID))
	_, err := c.do(ctx, http.MethodPut, endpoint, c.buildWireEvent(event))
	return err
}

// DeleteEvent deletes a calendar event.
func (c *HTTPClient) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		c.cfg.APIBase, url.PathEscape(c.cfg.CalendarID), url.PathEscape(eventID))
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrResponseInvalid, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, ErrEventNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return body, nil
}
