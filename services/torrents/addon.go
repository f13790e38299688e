package torrents

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"watchhub/internal/metrics"
	"watchhub/models"

	"github.com/google/uuid"
)

// Fetcher issues a GET against a target URL and decodes the JSON body.
type Fetcher interface {
	FetchJSON(ctx context.Context, target string, out any) error
}

// addonClient queries one stream-addon-shaped indexer. Both configured
// indexers expose the same /stream/{movie|series}/{id}.json endpoint,
// so a single client type serves primary and secondary alike.
type addonClient struct {
	name    string
	baseURL string
	fetcher Fetcher
}

func newAddonClient(name, baseURL string, fetcher Fetcher) *addonClient {
	return &addonClient{
		name:    name,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		fetcher: fetcher,
	}
}

type addonResponse struct {
	Streams []struct {
		Name     string `json:"name"`
		Title    string `json:"title"`
		InfoHash string `json:"infoHash"`
		URL      string `json:"url"`
		FileIdx  *int   `json:"fileIdx"`
	} `json:"streams"`
}

// fetchStreams queries the addon's stream endpoint. streamID is either
// a bare IMDB id or "ttXXXX:season:episode" for episodes.
func (c *addonClient) fetchStreams(ctx context.Context, mediaType, streamID string) ([]models.TorrentStream, error) {
	endpoint := fmt.Sprintf("%s/stream/%s/%s.json", c.baseURL, mediaType, url.PathEscape(streamID))

	var payload addonResponse
	if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, fmt.Errorf("%s %s: %w", c.name, streamID, err)
	}
	metrics.UpstreamRequests.WithLabelValues(c.name, "ok").Inc()

	streams := make([]models.TorrentStream, 0, len(payload.Streams))
	for _, raw := range payload.Streams {
		infoHash := strings.ToLower(strings.TrimSpace(raw.InfoHash))
		directURL := strings.TrimSpace(raw.URL)
		if infoHash == "" && directURL == "" {
			continue
		}
		fileIdx := 0
		if raw.FileIdx != nil {
			fileIdx = *raw.FileIdx
		}
		guid := uuid.NewString()
		if infoHash != "" {
			guid = "magnet:" + infoHash
		}
		streams = append(streams, models.TorrentStream{
			GUID:     guid,
			Title:    strings.TrimSpace(raw.Title),
			Name:     strings.TrimSpace(raw.Name),
			InfoHash: infoHash,
			URL:      directURL,
			FileIdx:  fileIdx,
			Indexer:  c.name,
		})
	}
	return streams, nil
}
