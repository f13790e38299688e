package sports

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"watchhub/internal/metrics"
	"watchhub/models"
)

// streamedClient talks to the flat-match-list live-sports backend.
type streamedClient struct {
	baseURL string
	fetcher Fetcher
}

func newStreamedClient(baseURL string, fetcher Fetcher) *streamedClient {
	return &streamedClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		fetcher: fetcher,
	}
}

type streamedMatch struct {
	Title    string           `json:"title"`
	Category string           `json:"category"`
	Date     int64            `json:"date"`
	Poster   string           `json:"poster"`
	Teams    *streamedTeams   `json:"teams"`
	Sources  []streamedSource `json:"sources"`
}

type streamedTeams struct {
	Home *streamedTeam `json:"home"`
	Away *streamedTeam `json:"away"`
}

type streamedTeam struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
}

type streamedSource struct {
	Source string `json:"source"`
	ID     string `json:"id"`
}

// streamEntry is the stream lookup payload shared by both backends.
type streamEntry struct {
	StreamNo int    `json:"streamNo"`
	Language string `json:"language"`
	HD       bool   `json:"hd"`
	EmbedURL string `json:"embedUrl"`
	Source   string `json:"source"`
}

func (c *streamedClient) fetchMatches(ctx context.Context) ([]streamedMatch, error) {
	endpoint := c.baseURL + "/matches/all"

	var payload []streamedMatch
	if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("streamed", "error").Inc()
		return nil, fmt.Errorf("streamed matches: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues("streamed", "ok").Inc()
	return payload, nil
}

// fetchStreams resolves one of the backend's own (source, id) pairs
// through its stream lookup endpoint.
func (c *streamedClient) fetchStreams(ctx context.Context, source, id string) ([]models.Stream, error) {
	endpoint := fmt.Sprintf("%s/stream/%s/%s", c.baseURL, url.PathEscape(source), url.PathEscape(id))

	var payload []streamEntry
	if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("streamed", "error").Inc()
		return nil, fmt.Errorf("streamed stream %s/%s: %w", source, id, err)
	}
	metrics.UpstreamRequests.WithLabelValues("streamed", "ok").Inc()

	return entriesToStreams(payload, source), nil
}

// entriesToStreams maps lookup payload entries onto the wire model,
// numbering entries that arrive without an ordinal.
func entriesToStreams(entries []streamEntry, fallbackSource string) []models.Stream {
	streams := make([]models.Stream, 0, len(entries))
	for i, entry := range entries {
		embed := strings.TrimSpace(entry.EmbedURL)
		if embed == "" {
			continue
		}
		if strings.HasPrefix(embed, "//") {
			embed = "https:" + embed
		}
		streamNo := entry.StreamNo
		if streamNo <= 0 {
			streamNo = i + 1
		}
		source := entry.Source
		if source == "" {
			source = fallbackSource
		}
		streams = append(streams, models.Stream{
			StreamNo: streamNo,
			Language: entry.Language,
			HD:       entry.HD,
			EmbedURL: embed,
			Source:   source,
		})
	}
	return streams
}
