// Package padelapi provides a minimal client for the padelapi.org REST API.
package padelapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// baseURL is the root endpoint for the padel API.
const baseURL = "https://padelapi.org/api"

// maxRetries is the number of additional attempts after a retryable failure.
const maxRetries = 2

// Client is a minimal padel API client.
type Client struct {
	token string
	http  *http.Client
}

// NewClient returns an API client authenticated with the given bearer token.
func NewClient(token string) *Client {
	return &Client{
		token: token,
		http:  &http.Client{Timeout: 20 * time.Second},
	}
}

// ListParams controls pagination and date filtering for ListMatches.
// Incremental runs restrict both date bounds to yesterday.
type ListParams struct {
	Limit      int
	Offset     int
	AfterDate  string // YYYY-MM-DD, inclusive
	BeforeDate string // YYYY-MM-DD, inclusive
}

// MatchPlayer is one player entry in a match's players block.
type MatchPlayer struct {
	Name string `json:"name"`
	Side string `json:"side"` // "backhand" or "drive"; may be missing
}

// SetScore is one set entry of a match's score block. Tokens are game counts,
// optionally with the tie-break score in parentheses, e.g. "7(5)".
type SetScore struct {
	Team1 string `json:"team_1"`
	Team2 string `json:"team_2"`
}

// APIMatch holds the fields we need from the /matches endpoint.
type APIMatch struct {
	ID        int64                    `json:"id"`
	PlayedAt  string                   `json:"played_at"`
	Category  string                   `json:"category"`
	RoundName string                   `json:"round_name"`
	Players   map[string][]MatchPlayer `json:"players"` // keyed "team_1"/"team_2"
	Score     []SetScore               `json:"score"`
	Winner    string                   `json:"winner"`
	Duration  string                   `json:"duration"` // "H:MM"
}

// ScoreGame is one game within a set of the score payload. Points carry the
// pre-point score, e.g. "40-15" in regular games or "6-5" in tie-breaks.
type ScoreGame struct {
	GameNumber int      `json:"game_number"`
	GameScore  string   `json:"game_score"` // set games at game start, "3-2"
	TieBreak   bool     `json:"tie_break"`
	Points     []string `json:"points"`
}

// ScoreSet is one set within the score payload.
type ScoreSet struct {
	SetNumber int         `json:"set_number"`
	Games     []ScoreGame `json:"games"`
}

// ScorePayload is the nested point-by-point score of one match.
type ScorePayload struct {
	ID   int64      `json:"id"`
	Sets []ScoreSet `json:"sets"`
}

// get performs an authenticated GET against the API and JSON-decodes the
// response into out. Transient failures (408, 429, 5xx, network errors) are
// retried with a short linear backoff.
func (c *Client) get(path string, params url.Values, out interface{}) error {
	endpoint := baseURL + path + "/"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		req, err := http.NewRequest("GET", endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("GET %s: %w", path, err)
			continue
		}

		if retryableStatus(resp.StatusCode) {
			resp.Body.Close()
			lastErr = fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("GET %s: decode: %w", path, err)
		}
		return nil
	}
	return lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ListMatches returns one page of completed matches.
func (c *Client) ListMatches(p ListParams) ([]APIMatch, error) {
	params := url.Values{}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		params.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.AfterDate != "" {
		params.Set("after_date", p.AfterDate)
	}
	if p.BeforeDate != "" {
		params.Set("before_date", p.BeforeDate)
	}

	var resp struct {
		Data []APIMatch `json:"data"`
	}
	if err := c.get("/matches", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetMatchScore returns the nested point-by-point score for one match.
func (c *Client) GetMatchScore(matchID int64) (*ScorePayload, error) {
	var payload ScorePayload
	if err := c.get(fmt.Sprintf("/matches/%d/live", matchID), nil, &payload); err != nil {
		return nil, err
	}
	if payload.Sets == nil {
		return nil, fmt.Errorf("match %d: score response missing 'sets'", matchID)
	}
	return &payload, nil
}
