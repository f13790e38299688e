package models

// TorrentStream is a torrent or direct-file playback candidate returned
// by an indexer addon. InfoHash, when present, is the content-equality
// key used for deduplication; entries without a hash are never merged.
// Title/Name and FileIdx are indexer metadata passed through untouched.
type TorrentStream struct {
	GUID     string `json:"guid"`
	Title    string `json:"title,omitempty"`
	Name     string `json:"name,omitempty"`
	InfoHash string `json:"infoHash,omitempty"`
	URL      string `json:"url,omitempty"`
	FileIdx  int    `json:"fileIdx,omitempty"`
	Indexer  string `json:"indexer,omitempty"`
}
