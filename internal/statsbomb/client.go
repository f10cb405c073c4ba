// Package statsbomb provides a minimal client for the StatsBomb open-data
// repository: match event logs, competitions, fixtures and the list of
// matches carrying 360 freeze frames.
package statsbomb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-sb-networks/internal/model"
)

// Default endpoints of the public open-data repository.
const (
	DefaultBaseURL    = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"
	DefaultListingURL = "https://api.github.com/repos/statsbomb/open-data/contents/data/three-sixty"
)

// ErrNotFound is returned when the provider has no data for a match id.
var ErrNotFound = errors.New("statsbomb: not found")

// Client fetches open-data JSON over HTTP, optionally through an on-disk cache.
type Client struct {
	baseURL    string
	listingURL string
	http       *http.Client
	cache      *Cache
	force      bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the data root (used by tests and mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithListingURL overrides the endpoint listing 360 match files.
func WithListingURL(u string) Option {
	return func(c *Client) { c.listingURL = u }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithCache stores raw event bodies under dir. An empty dir disables caching.
func WithCache(dir string) Option {
	return func(c *Client) {
		if dir == "" {
			c.cache = nil
			return
		}
		c.cache = NewCache(dir)
	}
}

// WithForce makes Events bypass cached bodies and refetch.
func WithForce(force bool) Option {
	return func(c *Client) { c.force = force }
}

// NewClient returns a Client for the public open-data repository.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		listingURL: DefaultListingURL,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Competition is one entry of competitions.json.
type Competition struct {
	CompetitionID   int    `json:"competition_id"`
	SeasonID        int    `json:"season_id"`
	CountryName     string `json:"country_name"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
	MatchAvailable  string `json:"match_available"`
	Available360    string `json:"match_available_360"`
}

// Match is one fixture from matches/{competition}/{season}.json.
type Match struct {
	MatchID   int64  `json:"match_id"`
	MatchDate string `json:"match_date"`
	HomeTeam  struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	Status360   string `json:"match_status_360"`
	Competition struct {
		Name string `json:"competition_name"`
	} `json:"competition"`
}

// getBody performs a GET and returns the whole body. A 404 maps to ErrNotFound.
func (c *Client) getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("GET %s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	body, err := c.getBody(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// RawEvents returns the undecoded event log of a match, from the cache when
// present unless the client was built WithForce.
func (c *Client) RawEvents(ctx context.Context, matchID int64) ([]byte, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id %d: %w", matchID, ErrNotFound)
	}
	if c.cache != nil && !c.force {
		if body, ok, err := c.cache.Get(matchID); err != nil {
			return nil, err
		} else if ok {
			return body, nil
		}
	}

	body, err := c.getBody(ctx, fmt.Sprintf("%s/events/%d.json", c.baseURL, matchID))
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Put(matchID, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// Events returns the decoded event log of a match, sorted by index.
func (c *Client) Events(ctx context.Context, matchID int64) ([]model.Event, error) {
	body, err := c.RawEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}
	events, err := DecodeEvents(body)
	if err != nil {
		return nil, fmt.Errorf("decode events for match %d: %w", matchID, err)
	}
	return events, nil
}

// Competitions lists every competition/season in the repository.
func (c *Client) Competitions(ctx context.Context) ([]Competition, error) {
	var out []Competition
	if err := c.get(ctx, c.baseURL+"/competitions.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Matches lists the fixtures of one competition season.
func (c *Client) Matches(ctx context.Context, competitionID, seasonID int) ([]Match, error) {
	var out []Match
	url := fmt.Sprintf("%s/matches/%d/%d.json", c.baseURL, competitionID, seasonID)
	if err := c.get(ctx, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ThreeSixtyMatchIDs lists the ids of matches that ship 360 freeze frames.
func (c *Client) ThreeSixtyMatchIDs(ctx context.Context) ([]int64, error) {
	var files []struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, c.listingURL, &files); err != nil {
		return nil, err
	}
	var ids []int64
	for _, f := range files {
		name, ok := strings.CutSuffix(f.Name, ".json")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
