package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"watchhub/models"

	"github.com/gorilla/mux"
)

type fakeTorrentAggregator struct {
	streams     []models.TorrentStream
	lastImdbID  string
	lastSeason  int
	lastEpisode int
	called      bool
}

func (f *fakeTorrentAggregator) GetMovieStreams(_ context.Context, imdbID string) []models.TorrentStream {
	f.called = true
	f.lastImdbID = imdbID
	return f.streams
}

func (f *fakeTorrentAggregator) GetEpisodeStreams(_ context.Context, imdbID string, season, episode int) []models.TorrentStream {
	f.called = true
	f.lastImdbID = imdbID
	f.lastSeason = season
	f.lastEpisode = episode
	return f.streams
}

func TestTorrentsHandler_Movie(t *testing.T) {
	fake := &fakeTorrentAggregator{
		streams: []models.TorrentStream{{GUID: "magnet:aaaa", Title: "Release A", InfoHash: "aaaa"}},
	}
	handler := NewTorrentsHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/torrents/movie/tt0111161", nil)
	req = mux.SetURLVars(req, map[string]string{"imdbID": "tt0111161"})
	rec := httptest.NewRecorder()
	handler.Movie(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	if fake.lastImdbID != "tt0111161" {
		t.Fatalf("unexpected imdb id captured: %q", fake.lastImdbID)
	}
	var payload torrentStreamsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Streams) != 1 || payload.Streams[0].InfoHash != "aaaa" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestTorrentsHandler_MovieEmpty(t *testing.T) {
	handler := NewTorrentsHandler(&fakeTorrentAggregator{})

	req := httptest.NewRequest(http.MethodGet, "/api/torrents/movie/tt0", nil)
	req = mux.SetURLVars(req, map[string]string{"imdbID": "tt0"})
	rec := httptest.NewRecorder()
	handler.Movie(rec, req)

	var payload torrentStreamsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Streams == nil || len(payload.Streams) != 0 {
		t.Fatalf("expected empty streams array, got %+v", payload.Streams)
	}
}

func TestTorrentsHandler_Series(t *testing.T) {
	fake := &fakeTorrentAggregator{}
	handler := NewTorrentsHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/torrents/series/tt0903747/1/3", nil)
	req = mux.SetURLVars(req, map[string]string{"imdbID": "tt0903747", "season": "1", "episode": "3"})
	rec := httptest.NewRecorder()
	handler.Series(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	if fake.lastSeason != 1 || fake.lastEpisode != 3 {
		t.Fatalf("unexpected coordinates: S%dE%d", fake.lastSeason, fake.lastEpisode)
	}
}

func TestTorrentsHandler_SeriesInvalidNumbers(t *testing.T) {
	cases := map[string]map[string]string{
		"non-numeric season": {"imdbID": "tt1", "season": "one", "episode": "3"},
		"zero episode":       {"imdbID": "tt1", "season": "1", "episode": "0"},
		"negative season":    {"imdbID": "tt1", "season": "-2", "episode": "3"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			fake := &fakeTorrentAggregator{}
			handler := NewTorrentsHandler(fake)

			req := httptest.NewRequest(http.MethodGet, "/api/torrents/series/x/y/z", nil)
			req = mux.SetURLVars(req, vars)
			rec := httptest.NewRecorder()
			handler.Series(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if fake.called {
				t.Fatalf("service must not be called for invalid coordinates")
			}
		})
	}
}
