package estat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"kakeistat/internal/observability"
)

const (
	DefaultBaseURL  = "https://api.e-stat.go.jp/rest/3.0/app/json"
	DefaultPageSize = 100000

	defaultCountTimeout = 30 * time.Second
	defaultFetchTimeout = 60 * time.Second
)

type Config struct {
	BaseURL           string
	AppID             string
	PageSize          int
	CountTimeout      time.Duration
	FetchTimeout      time.Duration
	RequestsPerSecond float64
}

// Client talks to the getStatsData endpoint. Requests are issued one at a
// time; pages are paced by the limiter.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	appID        string
	pageSize     int
	countTimeout time.Duration
	fetchTimeout time.Duration
	limiter      *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.CountTimeout <= 0 {
		cfg.CountTimeout = defaultCountTimeout
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		httpClient:   &http.Client{},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		appID:        cfg.AppID,
		pageSize:     cfg.PageSize,
		countTimeout: cfg.CountTimeout,
		fetchTimeout: cfg.FetchTimeout,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

// Count asks for a single row and returns TOTAL_NUMBER.
func (c *Client) Count(ctx context.Context, statsDataID string, f Filter) (int, error) {
	params, err := c.params(statsDataID, f)
	if err != nil {
		return 0, err
	}
	params.Set("limit", "1")

	env, err := c.getStatsData(ctx, "count", params, c.countTimeout)
	if err != nil {
		return 0, err
	}
	return env.Total(), nil
}

// Fetch pages through the whole result set and returns the records in
// arrival order. It stops on an empty page or once the next start position
// would pass TOTAL_NUMBER, and never returns more than TOTAL_NUMBER records.
func (c *Client) Fetch(ctx context.Context, statsDataID string, f Filter) ([]Record, error) {
	params, err := c.params(statsDataID, f)
	if err != nil {
		return nil, err
	}
	params.Set("limit", strconv.Itoa(c.pageSize))

	var records []Record
	start := 1
	for page := 1; ; page++ {
		params.Set("startPosition", strconv.Itoa(start))

		env, err := c.getStatsData(ctx, "fetch", params, c.fetchTimeout)
		if err != nil {
			return nil, err
		}

		values := env.Records()
		if len(values) == 0 {
			break
		}

		total := env.Total()
		if remaining := total - len(records); len(values) > remaining {
			values = values[:max(remaining, 0)]
		}
		records = append(records, values...)
		observability.RecordsFetchedTotal.Add(float64(len(values)))
		log.Printf("estat fetch stats_data_id=%s page=%d start=%d records=%d total=%d",
			statsDataID, page, start, len(values), total)

		if start+c.pageSize > total {
			break
		}
		start += c.pageSize
	}

	return records, nil
}

func (c *Client) params(statsDataID string, f Filter) (url.Values, error) {
	if c.appID == "" {
		return nil, configError("ESTAT_APP_ID is not set")
	}
	params, err := BuildParams(f)
	if err != nil {
		return nil, err
	}
	params.Set("appId", c.appID)
	params.Set("statsDataId", statsDataID)
	return params, nil
}

func (c *Client) getStatsData(ctx context.Context, op string, params url.Values, timeout time.Duration) (env *Envelope, err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		observability.APIRequestsTotal.WithLabelValues(op, outcome).Inc()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apiError("request cancelled", 0, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getStatsData?"+params.Encode(), nil)
	if err != nil {
		return nil, apiError("cannot build request", 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apiError(fmt.Sprintf("request timed out after %s", timeout), 0, err)
		}
		return nil, apiError("request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode, nil)
	}

	env = &Envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return nil, apiError("invalid response body", 0, err)
	}
	if err := CheckResponse(env); err != nil {
		return nil, err
	}
	return env, nil
}
