package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"watchhub/models"
)

// matchAggregator produces the merged live-event list.
type matchAggregator interface {
	GetAllMatches(ctx context.Context) []models.Match
}

// streamResolver resolves one Source locator into playable streams.
type streamResolver interface {
	Resolve(ctx context.Context, label string, locator models.Locator) []models.Stream
}

// SportsHandler handles live-sports HTTP requests.
type SportsHandler struct {
	service  matchAggregator
	resolver streamResolver
}

func NewSportsHandler(service matchAggregator, resolver streamResolver) *SportsHandler {
	return &SportsHandler{
		service:  service,
		resolver: resolver,
	}
}

// Matches returns the aggregated match list.
// GET /api/sports/matches
func (h *SportsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	matches := h.service.GetAllMatches(r.Context())
	if matches == nil {
		matches = []models.Match{}
	}
	writeJSON(w, matches)
}

// Streams resolves a single source locator.
// GET /api/sports/streams?label=...&kind=...&url=...&backend=...&key=...
func (h *SportsHandler) Streams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	locator := models.Locator{
		Kind:    models.LocatorKind(query.Get("kind")),
		URL:     query.Get("url"),
		Backend: query.Get("backend"),
		Key:     query.Get("key"),
	}

	switch locator.Kind {
	case models.LocatorIframe:
		if locator.URL == "" {
			writeJSONError(w, "iframe locator requires url", http.StatusBadRequest)
			return
		}
	case models.LocatorComposite:
		if locator.Backend == "" || locator.Key == "" {
			writeJSONError(w, "composite locator requires backend and key", http.StatusBadRequest)
			return
		}
	case models.LocatorKey:
		if locator.Key == "" {
			writeJSONError(w, "key locator requires key", http.StatusBadRequest)
			return
		}
	default:
		writeJSONError(w, "missing or unknown locator kind", http.StatusBadRequest)
		return
	}

	streams := h.resolver.Resolve(r.Context(), query.Get("label"), locator)
	if streams == nil {
		streams = []models.Stream{}
	}
	writeJSON(w, streams)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[api] JSON encode error: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
