package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Relay    RelaySettings    `json:"relay"`
	Sports   SportsSettings   `json:"sports"`
	Torrents TorrentsSettings `json:"torrents"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// RelaySettings configures the CORS-relay tier of upstream fetches.
// An empty Endpoint disables the relay and all fetches go direct.
type RelaySettings struct {
	Endpoint          string  `json:"endpoint"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

// SportsSettings configures the live-sports backends and the fuzzy
// merge window used to dedupe events across them.
type SportsSettings struct {
	PPVBaseURL         string `json:"ppvBaseUrl"`
	StreamedBaseURL    string `json:"streamedBaseUrl"`
	StreamedEnabled    bool   `json:"streamedEnabled"`
	MergeWindowMinutes int    `json:"mergeWindowMinutes"`
}

// TorrentsSettings configures the torrent indexer addons. PrimaryBaseURL
// is user-overridable; blank falls back to the built-in default.
type TorrentsSettings struct {
	PrimaryBaseURL   string `json:"primaryBaseUrl"`
	SecondaryBaseURL string `json:"secondaryBaseUrl"`
}

// LogConfig controls optional rotating file logging.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

const (
	defaultRelayEndpoint    = "https://corsproxy.io/?url="
	defaultPPVBaseURL       = "https://ppv.to"
	defaultStreamedBaseURL  = "https://streamed.pk/api"
	defaultSecondaryAddon   = "https://comet.elfhosted.com"
	defaultMergeWindowMin   = 120
	defaultRelayRequestRate = 4.0
)

// DefaultSettings returns the configuration written on first run.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 7474,
		},
		Relay: RelaySettings{
			Endpoint:          defaultRelayEndpoint,
			RequestsPerSecond: defaultRelayRequestRate,
		},
		Sports: SportsSettings{
			PPVBaseURL:         defaultPPVBaseURL,
			StreamedBaseURL:    defaultStreamedBaseURL,
			StreamedEnabled:    true,
			MergeWindowMinutes: defaultMergeWindowMin,
		},
		Torrents: TorrentsSettings{
			PrimaryBaseURL:   "",
			SecondaryBaseURL: defaultSecondaryAddon,
		},
		Log: LogConfig{
			MaxSize:    10,
			MaxAge:     14,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// MergeWindow returns the sports merge window as a duration, falling
// back to the default when the configured value is missing or absurd.
func (s SportsSettings) MergeWindow() time.Duration {
	minutes := s.MergeWindowMinutes
	if minutes <= 0 {
		minutes = defaultMergeWindowMin
	}
	return time.Duration(minutes) * time.Minute
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads the settings file from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	// Backfill fields older config files may be missing.
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Sports.PPVBaseURL) == "" {
		s.Sports.PPVBaseURL = defaults.Sports.PPVBaseURL
	}
	if strings.TrimSpace(s.Sports.StreamedBaseURL) == "" {
		s.Sports.StreamedBaseURL = defaults.Sports.StreamedBaseURL
	}
	if s.Sports.MergeWindowMinutes <= 0 {
		s.Sports.MergeWindowMinutes = defaults.Sports.MergeWindowMinutes
	}
	if strings.TrimSpace(s.Torrents.SecondaryBaseURL) == "" {
		s.Torrents.SecondaryBaseURL = defaults.Torrents.SecondaryBaseURL
	}
	if s.Relay.RequestsPerSecond <= 0 {
		s.Relay.RequestsPerSecond = defaults.Relay.RequestsPerSecond
	}
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}

	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
