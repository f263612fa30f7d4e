package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vse-rental/storefront/internal/models"
)

// IngestionClient posts submission rows to the spreadsheet endpoint
type IngestionClient struct {
	url        string
	httpClient *http.Client
}

// NewIngestionClient creates a client for the sheet endpoint at url
func NewIngestionClient(url string, httpClient *http.Client) *IngestionClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &IngestionClient{
		url:        url,
		httpClient: httpClient,
	}
}

// Ingest sends records as one JSON array
func (c *IngestionClient) Ingest(ctx context.Context, records []models.IngestionRecord) error {
	jsonData, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	status, body, err := c.Forward(ctx, jsonData)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return &StatusError{Endpoint: "ingestion endpoint", StatusCode: status, Message: UpstreamMessage(body)}
	}
	return nil
}

// Forward posts an already encoded JSON body and returns the upstream
// status and body untouched
func (c *IngestionClient) Forward(ctx context.Context, jsonBody []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call ingestion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
