package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vse-rental/storefront/internal/models"
)

// MailClient posts email payloads to a remote /api/send-email endpoint
type MailClient struct {
	url        string
	httpClient *http.Client
}

// NewMailClient creates a client for the mail endpoint at url
func NewMailClient(url string, httpClient *http.Client) *MailClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MailClient{
		url:        url,
		httpClient: httpClient,
	}
}

// Notify sends payload and succeeds only on a 2xx answer
func (c *MailClient) Notify(ctx context.Context, payload models.EmailPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mail endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return err
	}

	if !isSuccess(resp.StatusCode) {
		return &StatusError{Endpoint: "mail endpoint", StatusCode: resp.StatusCode, Message: UpstreamMessage(body)}
	}
	return nil
}
