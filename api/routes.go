package api

import (
	"net/http"

	"watchhub/handlers"
	"watchhub/internal/metrics"

	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for API routes. The browser frontend is
// served from a different origin, so every API response carries the
// permissive headers and preflights return immediately.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Register mounts all API endpoints onto the provided router.
func Register(
	r *mux.Router,
	sportsHandler *handlers.SportsHandler,
	torrentsHandler *handlers.TorrentsHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/sports/matches", sportsHandler.Matches).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/sports/streams", sportsHandler.Streams).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/torrents/movie/{imdbID}", torrentsHandler.Movie).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/torrents/series/{imdbID}/{season}/{episode}", torrentsHandler.Series).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/settings", settingsHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/settings", settingsHandler.Update).Methods(http.MethodPut)
}
