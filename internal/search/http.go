package search

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/candidate"
)

const (
	profilesPath    = "/profiles"
	contentType     = "application/json"
	contentEncoding = "gzip"
	defaultUA       = "sourcer/1 (+https://github.com/spigell/sourcer)"
	defaultPerPage  = 50
	defaultTimeout  = 15 * time.Second
)

// HTTPConfig configures a paged profile search API.
type HTTPConfig struct {
	URL       string        `mapstructure:"url"`
	TokenFile string        `mapstructure:"token-file"`
	UserAgent string        `mapstructure:"user-agent"`
	PerPage   int           `mapstructure:"per-page"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type itemResponse struct {
	Items   []any `json:"items"`
	Found   int   `json:"found"`
	Pages   int   `json:"pages"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// HTTPClient queries a JSON profile search API page by page.
type HTTPClient struct {
	baseURL    string
	token      string
	userAgent  string
	perPage    int
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTP(cfg HTTPConfig, token string, logger *zap.Logger) *HTTPClient {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUA
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      token,
		userAgent:  cfg.UserAgent,
		perPage:    cfg.PerPage,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *HTTPClient) Search(ctx context.Context, q Query) ([]candidate.Raw, error) {
	params := url.Values{}
	params.Set("q", q.SearchTerms())
	if loc := strings.TrimSpace(q.Location); loc != "" {
		params.Set("location", loc)
	}

	perPage := c.perPage
	if q.MaxResults > 0 && q.MaxResults < perPage {
		perPage = q.MaxResults
	}
	params.Set("per_page", strconv.Itoa(perPage))

	items, err := c.getItems(ctx, c.baseURL+profilesPath, params, q.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("searching profiles: %w", err)
	}

	var raws []candidate.Raw
	if err := mapstructure.Decode(items, &raws); err != nil {
		return nil, fmt.Errorf("decoding profiles: %w", err)
	}

	return limit(raws, q.MaxResults), nil
}

// getItems requests pages until the last one or until max items were collected.
func (c *HTTPClient) getItems(ctx context.Context, endpoint string, q url.Values, max int) ([]any, error) {
	var items []any

	for page := 0; ; page++ {
		q.Set("page", strconv.Itoa(page))

		response, err := c.getPage(ctx, endpoint, q)
		if err != nil {
			return nil, err
		}

		items = append(items, response.Items...)

		if max > 0 && len(items) >= max {
			break
		}
		if response.Page >= response.Pages-1 || len(response.Items) == 0 {
			break
		}

		c.logger.Debug("additional request needed",
			zap.Int("page", response.Page+1),
			zap.Int("pages", response.Pages),
			zap.Int("found", response.Found),
		)
	}

	return items, nil
}

func (c *HTTPClient) getPage(ctx context.Context, endpoint string, q url.Values) (*itemResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.URL.RawQuery = q.Encode()
	c.setHeaders(req)

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response itemResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &response, nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}
