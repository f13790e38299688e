package sports

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"watchhub/internal/metrics"
	"watchhub/models"
)

// Fetcher issues a GET against a target URL and decodes the JSON body.
type Fetcher interface {
	FetchJSON(ctx context.Context, target string, out any) error
}

// ppvClient talks to the category/stream shaped live-sports backend.
type ppvClient struct {
	baseURL string
	fetcher Fetcher
}

func newPPVClient(baseURL string, fetcher Fetcher) *ppvClient {
	return &ppvClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		fetcher: fetcher,
	}
}

type ppvResponse struct {
	Success bool          `json:"success"`
	Streams []ppvCategory `json:"streams"`
}

type ppvCategory struct {
	Category string      `json:"category"`
	ID       int         `json:"id"`
	Streams  []ppvStream `json:"streams"`
}

type ppvStream struct {
	Name       string `json:"name"`
	Tag        string `json:"tag"`
	Poster     string `json:"poster"`
	URIName    string `json:"uri_name"`
	StartsAt   int64  `json:"starts_at"`
	EndsAt     int64  `json:"ends_at"`
	IFrame     string `json:"iframe"`
	AlwaysLive int    `json:"always_live"`
}

func (c *ppvClient) fetchCategories(ctx context.Context) ([]ppvCategory, error) {
	endpoint := c.baseURL + "/api/streams"

	var payload ppvResponse
	if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("ppv", "error").Inc()
		return nil, fmt.Errorf("ppv streams: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues("ppv", "ok").Inc()

	if !payload.Success {
		return nil, fmt.Errorf("ppv streams: backend reported failure")
	}
	return payload.Streams, nil
}

// fetchStreams resolves a bare lookup key through the legacy stream
// endpoint. label is expected to be lower-cased by the caller.
func (c *ppvClient) fetchStreams(ctx context.Context, label, key string) ([]models.Stream, error) {
	endpoint := fmt.Sprintf("%s/api/streams/%s/%s", c.baseURL, url.PathEscape(label), url.PathEscape(key))

	var payload []streamEntry
	if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("ppv", "error").Inc()
		return nil, fmt.Errorf("ppv stream %s/%s: %w", label, key, err)
	}
	metrics.UpstreamRequests.WithLabelValues("ppv", "ok").Inc()

	return entriesToStreams(payload, label), nil
}
