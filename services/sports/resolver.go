package sports

import (
	"context"
	"log"
	"regexp"
	"strings"

	"watchhub/models"
)

var iframeSrcPattern = regexp.MustCompile(`src=["']([^"']+)["']`)

// Resolver turns a Source locator into directly playable streams.
// Lookup failures never propagate: an empty list is the degraded state
// the UI renders as "no streams found for this provider".
type Resolver struct {
	ppv      *ppvClient
	streamed *streamedClient
}

func NewResolver(fetcher Fetcher, ppvBaseURL, streamedBaseURL string) *Resolver {
	return &Resolver{
		ppv:      newPPVClient(ppvBaseURL, fetcher),
		streamed: newStreamedClient(streamedBaseURL, fetcher),
	}
}

// Resolve dispatches on the locator kind. Only the iframe kind is
// network-free; the other two go through their backend's lookup
// endpoint.
func (r *Resolver) Resolve(ctx context.Context, label string, locator models.Locator) []models.Stream {
	switch locator.Kind {
	case models.LocatorIframe:
		embed := iframeEmbedURL(locator.URL)
		if embed == "" {
			return nil
		}
		return []models.Stream{{
			StreamNo: 1,
			Language: "Default",
			HD:       true,
			EmbedURL: embed,
			Source:   label,
		}}

	case models.LocatorComposite:
		streams, err := r.streamed.fetchStreams(ctx, locator.Backend, locator.Key)
		if err != nil {
			log.Printf("[sports] composite lookup failed for %s/%s: %v", locator.Backend, locator.Key, err)
			return nil
		}
		return streams

	case models.LocatorKey:
		streams, err := r.ppv.fetchStreams(ctx, strings.ToLower(label), locator.Key)
		if err != nil {
			log.Printf("[sports] key lookup failed for %q: %v", locator.Key, err)
			return nil
		}
		return streams

	default:
		log.Printf("[sports] unknown locator kind %q", locator.Kind)
		return nil
	}
}

// iframeEmbedURL extracts a playable URL from inline iframe markup, or
// treats the value as a URL when it is not markup. Protocol-relative
// URLs gain an https scheme. Idempotent for values that are already
// plain URLs.
func iframeEmbedURL(value string) string {
	embed := strings.TrimSpace(value)
	if embed == "" {
		return ""
	}
	if strings.Contains(embed, "<") {
		match := iframeSrcPattern.FindStringSubmatch(embed)
		if match == nil {
			return ""
		}
		embed = match[1]
	}
	if strings.HasPrefix(embed, "//") {
		embed = "https:" + embed
	}
	return embed
}
