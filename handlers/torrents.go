package handlers

import (
	"context"
	"net/http"
	"strconv"

	"watchhub/models"

	"github.com/gorilla/mux"
)

// torrentAggregator produces deduplicated torrent streams.
type torrentAggregator interface {
	GetMovieStreams(ctx context.Context, imdbID string) []models.TorrentStream
	GetEpisodeStreams(ctx context.Context, imdbID string, season, episode int) []models.TorrentStream
}

// TorrentsHandler handles torrent stream HTTP requests.
type TorrentsHandler struct {
	service torrentAggregator
}

func NewTorrentsHandler(service torrentAggregator) *TorrentsHandler {
	return &TorrentsHandler{service: service}
}

type torrentStreamsResponse struct {
	Streams []models.TorrentStream `json:"streams"`
}

// Movie returns torrent streams for a movie.
// GET /api/torrents/movie/{imdbID}
func (h *TorrentsHandler) Movie(w http.ResponseWriter, r *http.Request) {
	imdbID := mux.Vars(r)["imdbID"]

	streams := h.service.GetMovieStreams(r.Context(), imdbID)
	if streams == nil {
		streams = []models.TorrentStream{}
	}
	writeJSON(w, torrentStreamsResponse{Streams: streams})
}

// Series returns torrent streams for one episode.
// GET /api/torrents/series/{imdbID}/{season}/{episode}
func (h *TorrentsHandler) Series(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	imdbID := vars["imdbID"]

	season, err := strconv.Atoi(vars["season"])
	if err != nil || season <= 0 {
		writeJSONError(w, "invalid season", http.StatusBadRequest)
		return
	}
	episode, err := strconv.Atoi(vars["episode"])
	if err != nil || episode <= 0 {
		writeJSONError(w, "invalid episode", http.StatusBadRequest)
		return
	}

	streams := h.service.GetEpisodeStreams(r.Context(), imdbID, season, episode)
	if streams == nil {
		streams = []models.TorrentStream{}
	}
	writeJSON(w, torrentStreamsResponse{Streams: streams})
}
