// Package ftcscout is a minimal client for the FTCScout GraphQL API.
package ftcscout

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

const defaultBaseURL = "https://api.ftcscout.org/graphql"

// Client performs FTCScout API operations.
type Client interface {
	TeamStats(ctx context.Context, number int, season int) (*TeamStats, error)
}

// TeamStats holds the per-season quick stats for one team.
type TeamStats struct {
	Name string
	// OPR is the total offensive power rating and Rank its season rank.
	OPR  float64
	Rank int
	// Auto is the autonomous-only component.
	Auto float64
	// NP is the no-penalty rating, our stand-in for a strength index.
	NP float64
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	retry   resilience.Policy
}

// NewClient creates an FTCScout client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: resilience.DefaultPolicy("ftcscout"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const teamStatsQuery = `query TeamStats($number: Int!, $season: Int!) {
  teamByNumber(number: $number) {
    name
    quickStats(season: $season) {
      tots { value rank }
      auto { value }
      np { value }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type teamStatsResponse struct {
	Data struct {
		TeamByNumber *struct {
			Name       string `json:"name"`
			QuickStats *struct {
				Tots struct {
					Value float64 `json:"value"`
					Rank  int     `json:"rank"`
				} `json:"tots"`
				Auto struct {
					Value float64 `json:"value"`
				} `json:"auto"`
				NP struct {
					Value float64 `json:"value"`
				} `json:"np"`
			} `json:"quickStats"`
		} `json:"teamByNumber"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// TeamStats fetches a team's quick stats. Unknown teams and teams without
// stats for the season return a NotFoundError.
func (c *httpClient) TeamStats(ctx context.Context, number int, season int) (*TeamStats, error) {
	body, err := json.Marshal(graphqlRequest{
		Query: teamStatsQuery,
		Variables: map[string]any{
			"number": number,
			"season": season,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "ftcscout: marshal query")
	}

	return resilience.Retry(ctx, c.retry, func(ctx context.Context) (*TeamStats, error) {
		return c.teamStats(ctx, number, body)
	})
}

func (c *httpClient) teamStats(ctx context.Context, number int, body []byte) (*TeamStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "ftcscout: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ftcscout: post query")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ftcscout: read response")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("ftcscout: status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ftcscout: status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed teamStatsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, eris.Wrap(err, "ftcscout: decode response")
	}
	if len(parsed.Errors) > 0 {
		return nil, eris.Errorf("ftcscout: graphql error: %s", parsed.Errors[0].Message)
	}

	team := parsed.Data.TeamByNumber
	if team == nil || team.QuickStats == nil {
		return nil, &resilience.NotFoundError{Kind: "team stats", Key: strconv.Itoa(number)}
	}

	return &TeamStats{
		Name: team.Name,
		OPR:  team.QuickStats.Tots.Value,
		Rank: team.QuickStats.Tots.Rank,
		Auto: team.QuickStats.Auto.Value,
		NP:   team.QuickStats.NP.Value,
	}, nil
}
