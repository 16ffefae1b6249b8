// Package oncrawl is a client for the OnCrawl v2 REST and Data APIs.
package oncrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/circuitbreaker"
	infraerrors "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/errors"
	infrahttp "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/http"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

var (
	// ErrMissingToken is returned by NewClient without an API token.
	ErrMissingToken = errors.New("oncrawl api token is not configured")
	// ErrNotFound is returned when a crawl does not exist.
	ErrNotFound = errors.New("not found")
)

// ArchivedMessage replaces the upstream body of a 409 on data queries.
const ArchivedMessage = "Crawl is archived. Only live crawls can be queried."

const (
	// DefaultBaseURL is the public v2 API root.
	DefaultBaseURL = "https://app.oncrawl.com/api/v2"

	liveCrawlConcurrency = 4
)

// Endpoint labels used for metrics and spans.
const (
	endpointProjects   = "projects"
	endpointCrawl      = "crawl"
	endpointPageFields = "page_fields"
	endpointPages      = "query_pages"
	endpointAggs       = "aggregate_pages"
	endpointLinks      = "links"
)

// Config configures a Client. Zero values select defaults.
type Config struct {
	BaseURL           string
	APIToken          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	BreakerFailures   int
	BreakerTimeout    time.Duration
}

// Client calls the OnCrawl API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.Breaker
	telemetry  *telemetry.Provider
	logger     logger.Logger
}

// NewClient creates a client. Every call passes a shared rate limiter and
// circuit breaker.
func NewClient(cfg Config, tp *telemetry.Provider, log logger.Logger) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.APIToken,
		httpClient: infrahttp.NewClient(infrahttp.ClientConfig{Timeout: cfg.Timeout}),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		telemetry:  tp,
		logger:     log,
	}

	c.breaker = circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
		IsFailure:        isUpstreamFailure,
		OnStateChange: func(from, to circuitbreaker.State) {
			tp.SetCircuitOpen(to == circuitbreaker.StateOpen)
			log.Warn("OnCrawl circuit breaker state changed",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return c, nil
}

// CircuitState reports the breaker state for readiness checks.
func (c *Client) CircuitState() circuitbreaker.State {
	return c.breaker.State()
}

// TestConnection checks the token by listing projects. It never returns an error.
func (c *Client) TestConnection(ctx context.Context) ConnectionStatus {
	projects, err := c.Projects(ctx)
	if err != nil {
		if httpErr, ok := infraerrors.AsHTTPError(err); ok {
			return ConnectionStatus{
				Message: fmt.Sprintf("API returned status %d", httpErr.StatusCode),
				Error:   httpErr.Body,
			}
		}
		return ConnectionStatus{
			Message: "Connection failed: " + err.Error(),
			Error:   err.Error(),
		}
	}

	return ConnectionStatus{
		Success:      true,
		Message:      fmt.Sprintf("Connected successfully. Found %d projects.", len(projects)),
		ProjectCount: len(projects),
	}
}

// Projects lists the account's projects.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, endpointProjects, http.MethodGet, "/projects", nil, &resp); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return resp.Projects, nil
}

// Crawl fetches crawl details. A missing crawl yields ErrNotFound.
func (c *Client) Crawl(ctx context.Context, crawlID string) (*Crawl, error) {
	var resp struct {
		Crawl Crawl `json:"crawl"`
	}
	err := c.do(ctx, endpointCrawl, http.MethodGet, "/crawls/"+url.PathEscape(crawlID), nil, &resp)
	if err != nil {
		if code, ok := infraerrors.GetHTTPStatusCode(err); ok && code == http.StatusNotFound {
			return nil, fmt.Errorf("crawl %s: %w", crawlID, ErrNotFound)
		}
		return nil, fmt.Errorf("get crawl %s: %w", crawlID, err)
	}
	return &resp.Crawl, nil
}

// LiveCrawls returns the latest crawl of every project whose data is live, in
// project order. Projects whose crawl details cannot be read are skipped.
func (c *Client) LiveCrawls(ctx context.Context) ([]LiveCrawl, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}

	slots := make([]*LiveCrawl, len(projects))

	var g errgroup.Group
	g.SetLimit(liveCrawlConcurrency)
	for i, p := range projects {
		if p.LastCrawlID == "" {
			continue
		}
		g.Go(func() error {
			crawl, crawlErr := c.Crawl(ctx, p.LastCrawlID)
			if crawlErr != nil {
				logger.FromContext(ctx).Debug("Skipping project crawl",
					logger.String("project_id", p.ID),
					logger.CrawlID(p.LastCrawlID),
					logger.Error(crawlErr),
				)
				return nil
			}
			if !crawl.IsLive() {
				return nil
			}
			slots[i] = &LiveCrawl{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				CrawlID:     p.LastCrawlID,
				Status:      crawl.Status,
				LinkStatus:  crawl.LinkStatus,
				CrawlConfig: crawl.CrawlConfig,
			}
			return nil
		})
	}
	_ = g.Wait()

	live := make([]LiveCrawl, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			live = append(live, *s)
		}
	}
	return live, nil
}

// PageFields lists the fields available for page queries.
func (c *Client) PageFields(ctx context.Context, crawlID string) ([]PageField, error) {
	var resp struct {
		Fields []PageField `json:"fields"`
	}
	path := "/data/crawl/" + url.PathEscape(crawlID) + "/pages/fields"
	if err := c.do(ctx, endpointPageFields, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("page fields: %w", err)
	}
	return resp.Fields, nil
}

// QueryPages runs a filtered, sorted, paginated pages query.
func (c *Client) QueryPages(ctx context.Context, crawlID string, q PageQuery) (*PageResult, error) {
	if len(q.Fields) == 0 {
		q.Fields = DefaultPageFields
	}

	var result PageResult
	path := "/data/crawl/" + url.PathEscape(crawlID) + "/pages"
	if err := c.do(ctx, endpointPages, http.MethodPost, path, q, &result); err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	if result.URLs == nil {
		result.URLs = []domain.Page{}
	}
	return &result, nil
}

// AggregatePages runs aggregate queries and returns the raw response.
func (c *Client) AggregatePages(ctx context.Context, crawlID string, aggs []Aggregation) (json.RawMessage, error) {
	var raw json.RawMessage
	path := "/data/crawl/" + url.PathEscape(crawlID) + "/pages/aggs"
	body := struct {
		Aggs []Aggregation `json:"aggs"`
	}{Aggs: aggs}
	if err := c.do(ctx, endpointAggs, http.MethodPost, path, body, &raw); err != nil {
		return nil, fmt.Errorf("aggregate pages: %w", err)
	}
	return raw, nil
}

// Links queries the link table of a crawl and returns the raw response.
func (c *Client) Links(ctx context.Context, crawlID string, limit, offset int) (json.RawMessage, error) {
	var raw json.RawMessage
	path := "/data/crawl/" + url.PathEscape(crawlID) + "/links"
	body := PageQuery{
		Offset: offset,
		Limit:  limit,
		Fields: []string{"origin", "destination", "follow", "type"},
	}
	if err := c.do(ctx, endpointLinks, http.MethodPost, path, body, &raw); err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	return raw, nil
}

// do sends one request through the limiter and breaker and decodes the JSON
// response into out.
func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		c.telemetry.RecordUpstream(endpoint, telemetry.OutcomeRateLimited, time.Since(start))
		return fmt.Errorf("rate limiter: %w", err)
	}

	err := c.breaker.Execute(ctx, func() error {
		return c.send(ctx, method, path, body, out)
	})

	c.telemetry.RecordUpstream(endpoint, outcome(err), time.Since(start))
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return archivedMessage(httpErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// archivedMessage rewrites the 409 returned for archived crawls into the
// message shown to dashboard users.
func archivedMessage(err error) error {
	if httpErr, ok := infraerrors.AsHTTPError(err); ok && httpErr.StatusCode == http.StatusConflict {
		httpErr.Message = ArchivedMessage
	}
	return err
}

// IsArchived reports whether err is the archived-crawl conflict.
func IsArchived(err error) bool {
	code, ok := infraerrors.GetHTTPStatusCode(err)
	return ok && code == http.StatusConflict
}

// isUpstreamFailure decides what counts against the breaker. Client errors
// other than 429 say nothing about upstream health.
func isUpstreamFailure(err error) bool {
	if code, ok := infraerrors.GetHTTPStatusCode(err); ok {
		return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	}
	return err != nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return telemetry.OutcomeCircuitOpen
	}

	code, ok := infraerrors.GetHTTPStatusCode(err)
	switch {
	case !ok:
		return telemetry.OutcomeNetwork
	case code == http.StatusTooManyRequests:
		return telemetry.OutcomeRateLimited
	case code >= http.StatusInternalServerError:
		return telemetry.OutcomeServerError
	default:
		return telemetry.OutcomeClientError
	}
}
