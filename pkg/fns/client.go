// Package fns provides a client for the api-fns.ru company registry API.
package fns

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// revenueLineCode is the line-item code for revenue in the accounting report.
const revenueLineCode = "2110"

// Client defines the registry lookup operations, keyed by INN.
type Client interface {
	// Financials returns the latest-year revenue report for an INN.
	// A nil report with a nil error means the registry has no data.
	Financials(ctx context.Context, inn string) (*FinancialReport, error)
	// PrimaryActivity returns the primary OKVED code for an INN.
	// An empty code with a nil error means no data.
	PrimaryActivity(ctx context.Context, inn string) (string, error)
}

// FinancialReport holds the latest reported revenue for a company.
type FinancialReport struct {
	Year    int   // reporting year
	Revenue int64 // minor currency units (report line 2110 scaled x1000)
}

// Option configures the FNS client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new FNS registry client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api-fns.ru",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET against an API endpoint with req/key query parameters.
func (c *httpClient) get(ctx context.Context, endpoint, inn string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fns: rate limit wait")
		}
	}

	q := url.Values{}
	q.Set("req", inn)
	q.Set("key", c.apiKey)
	reqURL := c.baseURL + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fns: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fns: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "fns: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("fns: %s unexpected status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	return body, nil
}

// Financials fetches the accounting reports for an INN and extracts the
// revenue line from the chronologically latest year.
func (c *httpClient) Financials(ctx context.Context, inn string) (*FinancialReport, error) {
	body, err := c.get(ctx, "/api/bo", inn)
	if err != nil {
		return nil, err
	}

	// Response shape: {"<inn>": {"<year>": {"<line-code>": <amount>, ...}, ...}}
	var byINN map[string]json.RawMessage
	if err := json.Unmarshal(body, &byINN); err != nil {
		return nil, eris.Wrap(err, "fns: unmarshal bo response")
	}

	raw, ok := byINN[inn]
	if !ok {
		return nil, nil
	}

	var byYear map[string]map[string]json.Number
	if err := json.Unmarshal(raw, &byYear); err != nil {
		// The registry sometimes returns a note string instead of the
		// per-year object. Treat as no data.
		return nil, nil
	}
	if len(byYear) == 0 {
		return nil, nil
	}

	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Strings(years)
	latest := years[len(years)-1]

	amount, ok := byYear[latest][revenueLineCode]
	if !ok {
		return nil, nil
	}

	year, err := strconv.Atoi(latest)
	if err != nil {
		return nil, eris.Wrapf(err, "fns: parse report year %q", latest)
	}

	// Report amounts are in thousands; scale to match the rest of the pipeline.
	v, err := amount.Float64()
	if err != nil {
		return nil, eris.Wrapf(err, "fns: parse revenue %q", amount.String())
	}

	return &FinancialReport{Year: year, Revenue: int64(v) * 1000}, nil
}

// egrResponse mirrors the subset of the EGR profile response the pipeline
// depends on; everything else is ignored.
type egrResponse struct {
	Items []egrItem `json:"items"`
}

type egrItem struct {
	Legal        *egrEntity `json:"ЮЛ"`
	Entrepreneur *egrEntity `json:"ИП"`
}

type egrEntity struct {
	MainActivity *egrActivity `json:"ОснВидДеят"`
}

type egrActivity struct {
	Code string `json:"Код"`
}

// PrimaryActivity fetches the EGR profile for an INN and returns the primary
// activity code of the legal entity or, failing that, the entrepreneur record.
func (c *httpClient) PrimaryActivity(ctx context.Context, inn string) (string, error) {
	body, err := c.get(ctx, "/api/egr", inn)
	if err != nil {
		return "", err
	}

	var resp egrResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", eris.Wrap(err, "fns: unmarshal egr response")
	}
	if len(resp.Items) == 0 {
		return "", nil
	}

	entity := resp.Items[0].Legal
	if entity == nil {
		entity = resp.Items[0].Entrepreneur
	}
	if entity == nil || entity.MainActivity == nil {
		return "", nil
	}

	return entity.MainActivity.Code, nil
}
