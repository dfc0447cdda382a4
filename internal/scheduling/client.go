package scheduling

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"buffet/pkg/client"
	"buffet/pkg/logger"
)

var (
	ErrNotConfigured  = errors.New("scheduling API not configured")
	ErrHostNotAllowed = errors.New("event URI host is not allowed")
)

// UpstreamError carries a non-2xx answer from the provider unchanged.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("scheduling provider returned %d: %s", e.StatusCode, e.Body)
}

type EventFetcher interface {
	GetEvent(ctx context.Context, eventURI string) (*Event, error)
}

type Client struct {
	http  *client.HttpClient
	token string
	hosts []string
	log   *logger.Logger
}

func NewClient(httpClient *client.HttpClient, token string, hosts []string, log *logger.Logger) *Client {
	return &Client{http: httpClient, token: token, hosts: hosts, log: log}
}

func (c *Client) Configured() bool {
	return c.token != ""
}

// GetEvent fetches eventURI with the configured bearer token. Only https URIs on
// the allowed hosts are fetched.
func (c *Client) GetEvent(ctx context.Context, eventURI string) (*Event, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if err := c.checkURI(eventURI); err != nil {
		return nil, err
	}

	c.log.Debug("Fetching scheduled event", "event_uri", eventURI)
	resp, err := c.http.GET(ctx, eventURI, map[string]string{
		"Authorization": "Bearer " + c.token,
		"Content-Type":  "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	if !resp.OK() {
		c.log.Warn("Scheduling provider error", "event_uri", eventURI, "status", resp.StatusCode)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var envelope eventEnvelope
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &envelope.Resource, nil
}

func (c *Client) checkURI(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, raw)
	}
	if u.Scheme != "https" || !slices.Contains(c.hosts, strings.ToLower(u.Hostname())) {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Host)
	}
	return nil
}
