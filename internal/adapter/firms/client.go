package firms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxFeedBytes bounds a single feed download.
const maxFeedBytes = 64 << 20

// ErrFeedTooLarge is returned when a download exceeds the size limit.
var ErrFeedTooLarge = errors.New("firms feed exceeds size limit")

// Client downloads the FIRMS country CSV feed.
// It implements pipeline.FeedFetcher.
type Client struct {
	key        string
	source     string
	country    string
	dayRange   int
	httpClient *http.Client
	baseURL    string
	maxBytes   int64
	logger     *slog.Logger
}

// Options configures a Client.
type Options struct {
	Key      string
	BaseURL  string // e.g. https://firms.modaps.eosdis.nasa.gov/api/country/csv
	Source   string // e.g. VIIRS_SNPP_NRT
	Country  string // ISO-3166 alpha-3, e.g. IND
	DayRange int
	Timeout  time.Duration
}

// NewClient creates a FIRMS feed client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	return &Client{
		key:      opts.Key,
		source:   opts.Source,
		country:  opts.Country,
		dayRange: opts.DayRange,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:  opts.BaseURL,
		maxBytes: maxFeedBytes,
		logger:   logger,
	}
}

// Fetch downloads the CSV for the configured country and day range.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/%s/%s/%s",
		c.baseURL,
		url.PathEscape(c.key),
		url.PathEscape(c.source),
		url.PathEscape(c.country),
		strconv.Itoa(c.dayRange),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("firms API error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read firms response: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFeedTooLarge, c.maxBytes)
	}

	c.logger.Debug("firms feed downloaded",
		"source", c.source,
		"country", c.country,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return data, nil
}
