package torrents

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"watchhub/models"

	"github.com/sourcegraph/conc"
)

const (
	// DefaultPrimaryBaseURL is used when the user-configured primary
	// indexer base URL is unset or blank.
	DefaultPrimaryBaseURL = "https://torrentio.strem.fun"

	mediaTypeMovie  = "movie"
	mediaTypeSeries = "series"
)

var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// Service aggregates torrent streams from a user-configurable primary
// indexer and a fixed secondary indexer.
type Service struct {
	fetcher       Fetcher
	secondaryBase string

	mu      sync.RWMutex
	primary *addonClient
}

// NewService builds the aggregator. primaryBase may be blank, in which
// case the built-in default is used; secondaryBase must be set.
func NewService(fetcher Fetcher, primaryBase, secondaryBase string) *Service {
	s := &Service{
		fetcher:       fetcher,
		secondaryBase: secondaryBase,
	}
	s.SetPrimaryBaseURL(primaryBase)
	return s
}

// SetPrimaryBaseURL swaps the primary indexer base URL at runtime.
// Blank resets to the built-in default. Called when settings change.
func (s *Service) SetPrimaryBaseURL(base string) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultPrimaryBaseURL
	}
	s.mu.Lock()
	s.primary = newAddonClient("primary", base, s.fetcher)
	s.mu.Unlock()
}

// GetMovieStreams returns deduplicated torrent streams for a movie.
// A malformed IMDB id short-circuits to an empty result without any
// network call.
func (s *Service) GetMovieStreams(ctx context.Context, imdbID string) []models.TorrentStream {
	if !imdbIDPattern.MatchString(imdbID) {
		log.Printf("[torrents] rejecting malformed imdb id %q", imdbID)
		return nil
	}
	return s.aggregate(ctx, mediaTypeMovie, imdbID)
}

// GetEpisodeStreams returns deduplicated torrent streams for a single
// episode of a series.
func (s *Service) GetEpisodeStreams(ctx context.Context, imdbID string, season, episode int) []models.TorrentStream {
	if !imdbIDPattern.MatchString(imdbID) {
		log.Printf("[torrents] rejecting malformed imdb id %q", imdbID)
		return nil
	}
	if season <= 0 || episode <= 0 {
		return nil
	}
	streamID := fmt.Sprintf("%s:%d:%d", imdbID, season, episode)
	return s.aggregate(ctx, mediaTypeSeries, streamID)
}

// aggregate fans out to both indexers, concatenates primary-then-
// secondary and dedupes by infohash. A failure in either indexer only
// zeroes that indexer's contribution.
func (s *Service) aggregate(ctx context.Context, mediaType, streamID string) []models.TorrentStream {
	s.mu.RLock()
	primary := s.primary
	s.mu.RUnlock()
	secondary := newAddonClient("secondary", s.secondaryBase, s.fetcher)

	var (
		wg               conc.WaitGroup
		primaryStreams   []models.TorrentStream
		secondaryStreams []models.TorrentStream
	)
	wg.Go(func() {
		streams, err := primary.fetchStreams(ctx, mediaType, streamID)
		if err != nil {
			log.Printf("[torrents] primary indexer failed: %v", err)
			return
		}
		primaryStreams = streams
	})
	wg.Go(func() {
		streams, err := secondary.fetchStreams(ctx, mediaType, streamID)
		if err != nil {
			log.Printf("[torrents] secondary indexer failed: %v", err)
			return
		}
		secondaryStreams = streams
	})
	wg.Wait()

	combined := make([]models.TorrentStream, 0, len(primaryStreams)+len(secondaryStreams))
	combined = append(combined, primaryStreams...)
	combined = append(combined, secondaryStreams...)

	deduped := dedupeByInfoHash(combined)
	log.Printf("[torrents] %s %s: %d primary + %d secondary -> %d after dedup",
		mediaType, streamID, len(primaryStreams), len(secondaryStreams), len(deduped))
	return deduped
}

// dedupeByInfoHash keeps the first occurrence of each infohash while
// preserving order. Entries without a hash are always kept.
func dedupeByInfoHash(streams []models.TorrentStream) []models.TorrentStream {
	seen := make(map[string]struct{}, len(streams))
	out := make([]models.TorrentStream, 0, len(streams))
	for _, stream := range streams {
		if stream.InfoHash != "" {
			if _, dup := seen[stream.InfoHash]; dup {
				continue
			}
			seen[stream.InfoHash] = struct{}{}
		}
		out = append(out, stream)
	}
	return out
}
