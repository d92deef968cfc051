// Package analytics posts product events to the GA4 Measurement Protocol.
// Everything here is fire-and-forget: a lost event is never worth failing
// an export over.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const defaultEndpoint = "https://www.google-analytics.com/mp/collect"

// Client sends measurement events. A client with no measurement id is
// disabled and ignores all events.
type Client struct {
	client        *http.Client
	endpoint      string
	measurementID string
	apiSecret     string
	clientID      string
}

// New creates an analytics client. If httpClient is nil,
// http.DefaultClient is used. Empty credentials disable the client.
func New(httpClient *http.Client, measurementID, apiSecret string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		client:        httpClient,
		endpoint:      defaultEndpoint,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		clientID:      fmt.Sprintf("boleta-api.%d", time.Now().UnixNano()),
	}
}

type eventPayload struct {
	ClientID string  `json:"client_id"`
	Events   []event `json:"events"`
}

type event struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params"`
}

// Event records one event asynchronously. Failures are logged and
// otherwise swallowed.
func (c *Client) Event(category, action string) {
	if c == nil || c.measurementID == "" || c.apiSecret == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.post(ctx, category, action); err != nil {
			log.Printf("[analytics] event %s/%s dropped: %v", category, action, err)
		}
	}()
}

// post performs one synchronous delivery; split out so tests can call it
// without goroutine timing.
func (c *Client) post(ctx context.Context, category, action string) error {
	payload := eventPayload{
		ClientID: c.clientID,
		Events: []event{{
			Name: "boleta_event",
			Params: map[string]string{
				"event_category": category,
				"event_action":   action,
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s",
		c.endpoint, c.measurementID, c.apiSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collect endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
