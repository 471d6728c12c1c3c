package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wayfarer-app/wayfarer/internal/models"
)

// RecordClient is the remote registration write boundary. Put has
// full-replace semantics: the record keyed by its ID is written once,
// never appended to.
type RecordClient interface {
	Put(ctx context.Context, token string, traveller models.Traveller) error
}

// HTTPRecordClient writes traveller records over JSON/HTTP, authorized
// with the session bearer token.
type HTTPRecordClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPRecordClient(baseURL string, timeout time.Duration) *HTTPRecordClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPRecordClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPRecordClient) Put(ctx context.Context, token string, traveller models.Traveller) error {
	body, err := json.Marshal(traveller)
	if err != nil {
		return fmt.Errorf("encode traveller: %w", err)
	}

	target := fmt.Sprintf("%s/travellers/%s", c.baseURL, url.PathEscape(traveller.ID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("remote write returned %s", resp.Status)
	}
	return nil
}
