// Package notify delivers the finished digest through ServerChan push
// keys. Every key is tried independently; one failing delivery never
// blocks the others.
package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/findigest/internal/config"
)

// Result records one delivery attempt.
type Result struct {
	Key string
	Err error
}

// Client pushes messages to the configured ServerChan keys.
type Client struct {
	endpoint   string
	keys       []string
	httpClient *http.Client
}

// New creates a push client from configuration.
func New(cfg config.PushConfig) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = "https://sctapi.ftqq.com"
	}
	return &Client{
		endpoint:   endpoint,
		keys:       cfg.KeyList(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Push delivers title and body to every configured key and returns the
// per-key results. A key's failure is logged and recorded, never fatal.
func (c *Client) Push(ctx context.Context, title, body string) []Result {
	results := make([]Result, 0, len(c.keys))
	for _, key := range c.keys {
		err := c.pushOne(ctx, key, title, body)
		if err != nil {
			log.Printf("notify: push to %s failed: %v", maskKey(key), err)
		} else {
			log.Printf("notify: push to %s ok", maskKey(key))
		}
		results = append(results, Result{Key: key, Err: err})
	}
	return results
}

// pushOne POSTs one message to a single key's send endpoint.
func (c *Client) pushOne(ctx context.Context, key, title, body string) error {
	form := url.Values{}
	form.Set("title", title)
	form.Set("desp", body)

	endpoint := fmt.Sprintf("%s/%s.send", c.endpoint, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("push HTTP %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}

// maskKey keeps logs from leaking full delivery keys.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
