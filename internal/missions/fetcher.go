// Package missions implements the mission watch client: a polling tracker
// that follows the agent's next appointment and derives a countdown phase.
package missions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/platform/config"
)

// Fetcher returns the agent's current mission list.
type Fetcher interface {
	FetchMissions(ctx context.Context) ([]transport.MissionRecord, error)
}

// HTTPFetcher reads missions from the backend API.
type HTTPFetcher struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPFetcher builds a fetcher from the mission configuration.
func NewHTTPFetcher(cfg config.MissionConfig) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimRight(cfg.GetMissionAPIBaseURL(), "/"),
		token:   cfg.GetMissionAuthToken(),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *HTTPFetcher) FetchMissions(ctx context.Context) ([]transport.MissionRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/v1/leads/missions", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch missions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch missions: unexpected status %d", resp.StatusCode)
	}

	var records []transport.MissionRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode missions: %w", err)
	}
	return records, nil
}
