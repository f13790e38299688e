package sports

import (
	"context"
	"log"
	"strings"
	"time"

	"watchhub/models"

	"github.com/sourcegraph/conc"
)

// Service aggregates live events from up to two backends into one
// deduplicated match list. The ppv backend is the master list; streamed
// entries only enrich matches the master already knows about.
type Service struct {
	ppv             *ppvClient
	streamed        *streamedClient
	streamedEnabled bool
	mergeWindow     time.Duration
}

// NewService builds the aggregator. mergeWindow bounds how far apart
// two start times may be for same-titled events to count as one event.
func NewService(fetcher Fetcher, ppvBaseURL, streamedBaseURL string, streamedEnabled bool, mergeWindow time.Duration) *Service {
	return &Service{
		ppv:             newPPVClient(ppvBaseURL, fetcher),
		streamed:        newStreamedClient(streamedBaseURL, fetcher),
		streamedEnabled: streamedEnabled,
		mergeWindow:     mergeWindow,
	}
}

// GetAllMatches queries both backends concurrently, normalizes each
// payload into canonical matches and merges them. A backend failure
// degrades to an empty contribution from that backend only.
func (s *Service) GetAllMatches(ctx context.Context) []models.Match {
	var (
		wg         conc.WaitGroup
		categories []ppvCategory
		flat       []streamedMatch
	)
	wg.Go(func() {
		result, err := s.ppv.fetchCategories(ctx)
		if err != nil {
			log.Printf("[sports] ppv fetch failed: %v", err)
			return
		}
		categories = result
	})
	if s.streamedEnabled {
		wg.Go(func() {
			result, err := s.streamed.fetchMatches(ctx)
			if err != nil {
				log.Printf("[sports] streamed fetch failed: %v", err)
				return
			}
			flat = result
		})
	}
	wg.Wait()

	master := s.normalizePPV(categories)
	candidates := s.normalizeStreamed(flat)
	merged := s.merge(master, candidates)

	log.Printf("[sports] aggregated %d matches (%d ppv categories, %d streamed candidates)",
		len(merged), len(categories), len(candidates))
	return merged
}

// normalizePPV flattens the category payload into matches, folding
// streams that describe the same event (same title, start within the
// merge window) into one match. Perpetual 24/7 feeds are skipped; this
// endpoint lists discrete events only.
func (s *Service) normalizePPV(categories []ppvCategory) []models.Match {
	var matches []models.Match
	for _, category := range categories {
		for _, stream := range category.Streams {
			if stream.AlwaysLive != 0 {
				continue
			}
			startTime := epochMillis(stream.StartsAt)

			label := stream.Tag
			if label == "" {
				label = stream.Name
			}
			source := models.Source{
				Label:   label,
				Locator: ppvLocator(stream),
			}

			if idx := findMatch(matches, stream.Name, startTime, s.mergeWindow); idx >= 0 {
				matches[idx].Sources = append(matches[idx].Sources, source)
				continue
			}
			matches = append(matches, models.Match{
				Title:     stream.Name,
				Category:  category.Category,
				StartTime: startTime,
				Poster:    absoluteURL(s.ppv.baseURL, stream.Poster),
				Sources:   []models.Source{source},
			})
		}
	}
	return matches
}

// ppvLocator builds the resolution locator for one ppv stream: inline
// iframe markup when present, otherwise the provider lookup key.
func ppvLocator(stream ppvStream) models.Locator {
	if markup := strings.TrimSpace(stream.IFrame); markup != "" {
		return models.Locator{Kind: models.LocatorIframe, URL: markup}
	}
	return models.Locator{Kind: models.LocatorKey, Key: stream.URIName}
}

// normalizeStreamed maps the flat match list into candidate matches,
// folding same-event entries the same way normalizePPV does.
func (s *Service) normalizeStreamed(flat []streamedMatch) []models.Match {
	var candidates []models.Match
	for _, entry := range flat {
		startTime := epochMillis(entry.Date)

		sources := make([]models.Source, 0, len(entry.Sources))
		for _, src := range entry.Sources {
			sources = append(sources, models.Source{
				Label: src.Source,
				Locator: models.Locator{
					Kind:    models.LocatorComposite,
					Backend: src.Source,
					Key:     src.ID,
				},
			})
		}

		if idx := findMatch(candidates, entry.Title, startTime, s.mergeWindow); idx >= 0 {
			candidates[idx].Sources = append(candidates[idx].Sources, sources...)
			continue
		}
		candidates = append(candidates, models.Match{
			Title:     entry.Title,
			Category:  entry.Category,
			StartTime: startTime,
			Poster:    absoluteURL(s.streamed.baseURL, entry.Poster),
			Teams:     streamedModelTeams(entry.Teams, s.streamed.baseURL),
			Sources:   sources,
		})
	}
	return candidates
}

// merge enriches the master list with streamed candidates. Neither
// backend exposes a shared event id, so identity is exact title plus a
// start time within the merge window; candidates with no master
// counterpart are dropped because the master list defines the visible
// event set.
func (s *Service) merge(master, candidates []models.Match) []models.Match {
	for i := range master {
		j := findMatch(candidates, master[i].Title, master[i].StartTime, s.mergeWindow)
		if j < 0 {
			continue
		}
		master[i].Sources = append(master[i].Sources, candidates[j].Sources...)
		if master[i].Teams == nil {
			master[i].Teams = candidates[j].Teams
		}
		if master[i].Poster == "" {
			master[i].Poster = candidates[j].Poster
		}
	}
	return master
}

// findMatch scans for an existing match with the same title and a start
// time within the window. Linear scan; fine at tens of events.
func findMatch(matches []models.Match, title string, startTime int64, window time.Duration) int {
	for i := range matches {
		if matches[i].Title != title {
			continue
		}
		delta := matches[i].StartTime - startTime
		if delta < 0 {
			delta = -delta
		}
		if delta <= window.Milliseconds() {
			return i
		}
	}
	return -1
}

// epochMillis normalizes an epoch timestamp to milliseconds. Backends
// disagree on the unit; anything small enough to be seconds is scaled.
func epochMillis(v int64) int64 {
	if v > 0 && v < 1_000_000_000_000 {
		return v * 1000
	}
	return v
}

// absoluteURL makes a possibly relative or protocol-relative reference
// absolute against the backend base.
func absoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	default:
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
	}
}

func streamedModelTeams(teams *streamedTeams, base string) *models.Teams {
	if teams == nil {
		return nil
	}
	out := &models.Teams{}
	if teams.Home != nil {
		out.Home = &models.Team{Name: teams.Home.Name, Logo: absoluteURL(base, teams.Home.Badge)}
	}
	if teams.Away != nil {
		out.Away = &models.Team{Name: teams.Away.Name, Logo: absoluteURL(base, teams.Away.Badge)}
	}
	if out.Home == nil && out.Away == nil {
		return nil
	}
	return out
}
