package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"watchhub/config"
)

// torrentConfigReceiver lets the torrents service pick up a new primary
// indexer base URL without a restart.
type torrentConfigReceiver interface {
	SetPrimaryBaseURL(base string)
}

// SettingsHandler reads and updates the persisted settings file.
type SettingsHandler struct {
	cfg      *config.Manager
	torrents torrentConfigReceiver
}

func NewSettingsHandler(cfg *config.Manager) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// SetTorrentsService enables hot reload of the primary indexer URL.
func (h *SettingsHandler) SetTorrentsService(svc torrentConfigReceiver) {
	h.torrents = svc
}

// Get returns the current settings.
// GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cfg.Load()
	if err != nil {
		log.Printf("[settings] load failed: %v", err)
		writeJSONError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, settings)
}

// Update replaces the persisted settings.
// PUT /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings config.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSONError(w, "invalid settings payload", http.StatusBadRequest)
		return
	}

	if err := h.cfg.Save(settings); err != nil {
		log.Printf("[settings] save failed: %v", err)
		writeJSONError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	if h.torrents != nil {
		h.torrents.SetPrimaryBaseURL(settings.Torrents.PrimaryBaseURL)
	}

	writeJSON(w, settings)
}
