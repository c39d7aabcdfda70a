package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

const (
	// defaultRequestTimeout bounds one stats request
	defaultRequestTimeout = 15 * time.Second

	// maxMatchAgeRanked is how old a match may be and still belong to a
	// ranked session being monitored
	maxMatchAgeRanked = 5 * time.Minute

	// maxMatchAgeDraft allows for the longer draft setup before the
	// match actually starts
	maxMatchAgeDraft = 7 * time.Minute
)

var (
	// ErrEmptyBaseURL is returned when the client has no stats endpoint
	ErrEmptyBaseURL = errors.New("base URL cannot be empty")
)

// HTTPConfig holds configuration for the stats-site client
type HTTPConfig struct {
	// BaseURL is the stats API root
	BaseURL string

	// HTTPClient overrides the default client, mainly for tests
	HTTPClient *http.Client
}

// httpClient implements Client against the stats site's JSON API
type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates a stats-site oracle client
func NewHTTP(cfg *HTTPConfig) (*httpClient, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}, nil
}

// recentMatch is the stats API's latest-match document
type recentMatch struct {
	// Queue is the match type, e.g. "Custom"
	Queue string `json:"queue"`

	// Placement is the monitored player's finish, e.g. "1st"
	Placement string `json:"placement"`

	// AgeSeconds is how long ago the match ended
	AgeSeconds int `json:"age_seconds"`

	// Card is the raw match summary text the fingerprint derives from
	Card string `json:"card"`
}

// Observe fetches the monitored player's most recent match and reads a
// session outcome from it
func (c *httpClient) Observe(ctx context.Context, input *ObserveInput) (*ObserveOutput, error) {
	endpoint := fmt.Sprintf("%s/players/%s/matches/latest", c.baseURL, url.PathEscape(input.IGN))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stats request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		// No match history yet
		return &ObserveOutput{Outcome: OutcomeStillPlaying}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats request returned %d", resp.StatusCode)
	}

	var match recentMatch
	if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
		return nil, fmt.Errorf("failed to decode match: %w", err)
	}

	if !strings.EqualFold(match.Queue, "custom") {
		return &ObserveOutput{Outcome: OutcomeStillPlaying}, nil
	}

	maxAge := maxMatchAgeRanked
	if input.Mode == models.GameModeDraft {
		maxAge = maxMatchAgeDraft
	}
	if time.Duration(match.AgeSeconds)*time.Second > maxAge {
		// A custom match from before this session started
		return &ObserveOutput{Outcome: OutcomeStillPlaying}, nil
	}

	fingerprint := fmt.Sprintf("%x", sha256.Sum256([]byte(match.Card)))

	switch match.Placement {
	case "1st":
		return &ObserveOutput{Outcome: OutcomeTeamA, Fingerprint: fingerprint}, nil
	case "2nd":
		return &ObserveOutput{Outcome: OutcomeTeamB, Fingerprint: fingerprint}, nil
	default:
		return &ObserveOutput{Outcome: OutcomeUnknown}, nil
	}
}
