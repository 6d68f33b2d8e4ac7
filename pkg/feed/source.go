// Package feed polls the schedule backend for each display feed and turns
// the responses into board snapshots and announcement candidates.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"dockboard/pkg/config"
	"dockboard/pkg/model"
	"dockboard/pkg/request"
)

// ScheduleSource fetches the arrival schedule for one feed.
type ScheduleSource interface {
	Fetch(ctx context.Context, feedID string) ([]model.ScheduleEntry, error)
}

// ConfigSource fetches the operator-managed display configuration.
type ConfigSource interface {
	Fetch(ctx context.Context) (*config.FeedDocument, error)
}

// HTTPScheduleSource fetches the schedule over HTTP. Every fetch carries the
// client's cache-busting parameter so the board never renders stale data.
type HTTPScheduleSource struct {
	client *request.Client
	url    string
}

// NewHTTPScheduleSource creates a schedule source against baseURL.
func NewHTTPScheduleSource(client *request.Client, baseURL string) *HTTPScheduleSource {
	return &HTTPScheduleSource{client: client, url: baseURL}
}

func (s *HTTPScheduleSource) Fetch(ctx context.Context, feedID string) ([]model.ScheduleEntry, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("schedule url: %w", err)
	}
	q := u.Query()
	q.Set("feed", feedID)
	u.RawQuery = q.Encode()

	body, err := s.client.GetFresh(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("schedule fetch: %w", err)
	}

	var entries []model.ScheduleEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("schedule parse: %w", err)
	}
	return entries, nil
}

// HTTPConfigSource fetches the display configuration document over HTTP.
type HTTPConfigSource struct {
	client *request.Client
	url    string
}

// NewHTTPConfigSource creates a configuration source against baseURL.
func NewHTTPConfigSource(client *request.Client, baseURL string) *HTTPConfigSource {
	return &HTTPConfigSource{client: client, url: baseURL}
}

func (s *HTTPConfigSource) Fetch(ctx context.Context) (*config.FeedDocument, error) {
	body, err := s.client.GetFresh(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("config fetch: %w", err)
	}
	return config.ParseFeedDocument(body)
}
