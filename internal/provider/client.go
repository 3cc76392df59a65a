package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/plugbts/propflow/pkg/models"
)

const (
	// DefaultBaseURL is the upstream odds provider API root
	DefaultBaseURL = "https://api.sportsgameodds.com/v2"

	// defaultPageLimit bounds one page of events
	defaultPageLimit = 50
)

// Client handles upstream odds provider requests. Outbound calls are paced
// with a token-bucket limiter so bursts of fallback queries stay inside the
// provider's request allowance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an upstream client. requestsPerMinute caps outbound call
// rate; zero disables pacing.
func NewClient(baseURL, apiKey string, requestsPerMinute int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute/6+1)
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter: limiter,
	}
}

// EventQuery describes one upstream events request
type EventQuery struct {
	LeagueID      string
	Season        string
	Week          int  // 0 means no week filter
	OddsAvailable bool // restrict to events with live odds
	PlayerProps   bool // restrict to player-prop markets
	Limit         int
}

// eventsEnvelope is the upstream response shape: an events array plus an
// optional opaque next-page cursor
type eventsEnvelope struct {
	Events     []models.Event `json:"events"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// FetchEventsPage fetches one page of events. The returned cursor is empty on
// the last page.
func (c *Client) FetchEventsPage(ctx context.Context, q EventQuery, cursor string) ([]models.Event, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	params := url.Values{}
	params.Set("leagueID", q.LeagueID)
	if q.Season != "" {
		params.Set("season", q.Season)
	}
	if q.Week > 0 {
		params.Set("week", strconv.Itoa(q.Week))
	}
	if q.OddsAvailable {
		params.Set("oddsAvailable", "true")
	}
	if q.PlayerProps {
		params.Set("marketOddsAvailable", "playerProps")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	endpoint := fmt.Sprintf("%s/events?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, "", &FetchError{Status: resp.StatusCode, Body: string(body)}
	}

	var envelope eventsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, "", fmt.Errorf("decoding response: %w", err)
	}

	return envelope.Events, envelope.NextCursor, nil
}

// FetchError is a non-2xx upstream response
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("odds provider error: status=%d, body=%s", e.Status, e.Body)
}

// StatusCode extracts the upstream status bucket from a fetch error for
// metrics; network-level failures bucket as 0.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Status
	}
	return 0
}
