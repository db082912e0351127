package transmit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/MindsetIO/log-stream/internal/parser"
)

const userAgent = "Syslog stream"

// Poster ships each matched record to the collection API as a JSON logline.
// Failures are returned to the caller for reporting and never retried; the
// next record carries the pipeline forward.
type Poster struct {
	mu     sync.RWMutex
	url    string
	apiKey string
	client *http.Client
}

// NewPoster creates a poster for the given endpoint. An empty url yields a
// disabled poster whose Post is a no-op (dashboard-only deployments).
func NewPoster(url, apiKey string) *Poster {
	return &Poster{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// loglineBody is the wire shape the collection API expects.
type loglineBody struct {
	Data struct {
		Logline struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			Timestamp string `json:"timestamp"`
		} `json:"logline"`
	} `json:"data"`
}

// Post transmits one record. Non-2xx responses are errors with the response
// body surfaced for debugging a rejected payload.
func (p *Poster) Post(rec *parser.ParsedRecord) error {
	p.mu.RLock()
	url, apiKey := p.url, p.apiKey
	p.mu.RUnlock()

	if url == "" {
		return nil
	}

	var body loglineBody
	body.Data.Logline.Type = string(rec.Type)
	body.Data.Logline.Content = rec.Content
	body.Data.Logline.Timestamp = rec.Arrival.UTC().Format(time.RFC3339)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal logline: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url+"?api_key="+apiKey, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post logline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("api returned status %s: %s", resp.Status, msg)
	}
	return nil
}

// UpdateConfig swaps the endpoint settings, used on config reload.
func (p *Poster) UpdateConfig(url, apiKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	p.apiKey = apiKey
}
