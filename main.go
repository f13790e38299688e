package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"watchhub/api"
	"watchhub/config"
	"watchhub/handlers"
	"watchhub/internal/metrics"
	"watchhub/internal/relay"
	"watchhub/services/sports"
	"watchhub/services/torrents"

	"github.com/gorilla/mux"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	configPath := os.Getenv("WATCHHUB_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	relayClient := relay.NewClient(nil, settings.Relay.Endpoint, settings.Relay.RequestsPerSecond)

	sportsService := sports.NewService(
		relayClient,
		settings.Sports.PPVBaseURL,
		settings.Sports.StreamedBaseURL,
		settings.Sports.StreamedEnabled,
		settings.Sports.MergeWindow(),
	)
	sportsResolver := sports.NewResolver(relayClient, settings.Sports.PPVBaseURL, settings.Sports.StreamedBaseURL)
	torrentsService := torrents.NewService(relayClient, settings.Torrents.PrimaryBaseURL, settings.Torrents.SecondaryBaseURL)

	sportsHandler := handlers.NewSportsHandler(sportsService, sportsResolver)
	torrentsHandler := handlers.NewTorrentsHandler(torrentsService)
	settingsHandler := handlers.NewSettingsHandler(cfgManager)
	settingsHandler.SetTorrentsService(torrentsService) // hot reload of the primary indexer URL

	r := mux.NewRouter()
	api.Register(r, sportsHandler, torrentsHandler, settingsHandler)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      metrics.Middleware(r),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
