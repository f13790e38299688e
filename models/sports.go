package models

// LocatorKind selects the resolution strategy for a Source.
type LocatorKind string

const (
	// LocatorIframe carries inline iframe markup or a bare embed URL;
	// resolution is purely syntactic.
	LocatorIframe LocatorKind = "iframe"
	// LocatorComposite carries a backend label plus that backend's own
	// stream id, resolved through its stream lookup endpoint.
	LocatorComposite LocatorKind = "composite"
	// LocatorKey carries an opaque lookup key for the legacy backend.
	LocatorKey LocatorKind = "key"
)

// Locator identifies how to obtain playable streams for a Source.
// It is built once during normalization so the resolver dispatches on
// Kind instead of re-parsing prefix strings.
type Locator struct {
	Kind    LocatorKind `json:"kind"`
	URL     string      `json:"url,omitempty"`
	Backend string      `json:"backend,omitempty"`
	Key     string      `json:"key,omitempty"`
}

// Source is a provider-specific pointer to a stream, attached to a Match.
type Source struct {
	Label   string  `json:"label"`
	Locator Locator `json:"locator"`
}

// Team is one side of a fixture.
type Team struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Teams is the structured home/away pair for a Match.
type Teams struct {
	Home *Team `json:"home,omitempty"`
	Away *Team `json:"away,omitempty"`
}

// Match is a real-world live event aggregated across backends.
// StartTime is always epoch milliseconds after ingestion, regardless of
// the unit the originating backend reported.
type Match struct {
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	StartTime int64    `json:"startTime"`
	Poster    string   `json:"poster,omitempty"`
	Teams     *Teams   `json:"teams,omitempty"`
	Sources   []Source `json:"sources"`
}

// Stream is a resolved, directly playable unit.
type Stream struct {
	StreamNo int    `json:"streamNo"`
	Language string `json:"language,omitempty"`
	HD       bool   `json:"hd"`
	EmbedURL string `json:"embedUrl"`
	Source   string `json:"source"`
}
