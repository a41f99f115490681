package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RESTClient talks to the historical-data provider's REST API.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRESTClient creates a client with the given base URL and per-request timeout.
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetCandles fetches historical candles for one instrument and interval
// over [from, to]. interval is the provider's API value (e.g. "5", "D").
func (c *RESTClient) GetCandles(ctx context.Context, instrument, interval string, from, to time.Time) ([]Candle, error) {
	endpoint := fmt.Sprintf(
		"%s/v1/history/candles?instrument=%s&interval=%s&from=%s&to=%s",
		c.baseURL,
		url.QueryEscape(instrument),
		url.QueryEscape(interval),
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider error: %s", body)
	}

	var rawResp ProviderResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rawResp.Status != "success" {
		return nil, fmt.Errorf("provider rejected request: %s", rawResp.Message)
	}

	var result CandlesResponse
	if err := json.Unmarshal(rawResp.Data, &result); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}

	return ParseCandleRows(result.Candles), nil
}
