// Package sheets reads public Google Sheets through the v4 values endpoint.
// Only read access is needed, so an API key is enough and no OAuth flow is
// carried.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Client reads cell ranges from a spreadsheet.
type Client interface {
	Values(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.Policy
}

// NewClient creates a Google Sheets client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry: resilience.DefaultPolicy("sheets"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type valuesResponse struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// Values fetches a range as rows of strings. Cells past the last filled
// column of a row are absent, so rows may be ragged.
func (c *httpClient) Values(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	if spreadsheetID == "" {
		return nil, resilience.NewValidationError("spreadsheet id", "must not be empty")
	}
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(spreadsheetID),
		url.PathEscape(readRange),
		url.QueryEscape(c.apiKey),
	)

	return resilience.Retry(ctx, c.retry, func(ctx context.Context) ([][]string, error) {
		return c.values(ctx, endpoint, spreadsheetID)
	})
}

func (c *httpClient) values(ctx context.Context, endpoint, spreadsheetID string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: get values")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: read response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &resilience.NotFoundError{Kind: "spreadsheet", Key: spreadsheetID}
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return nil, resilience.NewTransientError(
			eris.Errorf("sheets: status %d", resp.StatusCode), resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, eris.Errorf("sheets: status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed valuesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, eris.Wrap(err, "sheets: decode response")
	}

	rows := make([][]string, len(parsed.Values))
	for i, row := range parsed.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}
