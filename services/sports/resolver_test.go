package sports

import (
	"context"
	"fmt"
	"testing"

	"watchhub/models"
)

// noNetworkFetcher fails the test if any network call is attempted.
type noNetworkFetcher struct {
	t *testing.T
}

func (f *noNetworkFetcher) FetchJSON(_ context.Context, target string, _ any) error {
	f.t.Fatalf("unexpected network call to %s", target)
	return nil
}

func newTestResolver(fetcher Fetcher) *Resolver {
	return NewResolver(fetcher, testPPVBase, testStreamedBase)
}

func TestResolveIframeMarkup(t *testing.T) {
	resolver := newTestResolver(&noNetworkFetcher{t: t})

	streams := resolver.Resolve(context.Background(), "Alpha", models.Locator{
		Kind: models.LocatorIframe,
		URL:  `<iframe src='https://x.test/a'></iframe>`,
	})

	if len(streams) != 1 {
		t.Fatalf("expected exactly one stream, got %d", len(streams))
	}
	stream := streams[0]
	if stream.EmbedURL != "https://x.test/a" {
		t.Fatalf("expected extracted src, got %q", stream.EmbedURL)
	}
	if stream.StreamNo != 1 || stream.Language != "Default" || !stream.HD {
		t.Fatalf("unexpected stream defaults: %+v", stream)
	}
	if stream.Source != "Alpha" {
		t.Fatalf("expected source label carried through, got %q", stream.Source)
	}
}

func TestResolveIframeProtocolRelative(t *testing.T) {
	resolver := newTestResolver(&noNetworkFetcher{t: t})

	streams := resolver.Resolve(context.Background(), "Alpha", models.Locator{
		Kind: models.LocatorIframe,
		URL:  "//cdn.test/v",
	})

	if len(streams) != 1 {
		t.Fatalf("expected one stream, got %d", len(streams))
	}
	if streams[0].EmbedURL != "https://cdn.test/v" {
		t.Fatalf("expected https scheme prefixed, got %q", streams[0].EmbedURL)
	}
}

func TestResolveIframeWithoutSrc(t *testing.T) {
	resolver := newTestResolver(&noNetworkFetcher{t: t})

	streams := resolver.Resolve(context.Background(), "Alpha", models.Locator{
		Kind: models.LocatorIframe,
		URL:  "<iframe></iframe>",
	})
	if len(streams) != 0 {
		t.Fatalf("markup without src must resolve to nothing, got %+v", streams)
	}
}

func TestResolveComposite(t *testing.T) {
	fetcher := &fakeFetcher{
		payloads: map[string]string{
			testStreamedBase + "/stream/alpha/abc": `[
				{"streamNo": 1, "language": "English", "hd": true, "embedUrl": "https://e.test/1", "source": "alpha"},
				{"streamNo": 2, "language": "Spanish", "hd": false, "embedUrl": "//e.test/2"}
			]`,
		},
	}
	resolver := newTestResolver(fetcher)

	streams := resolver.Resolve(context.Background(), "Alpha", models.Locator{
		Kind:    models.LocatorComposite,
		Backend: "alpha",
		Key:     "abc",
	})

	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[1].EmbedURL != "https://e.test/2" {
		t.Fatalf("expected protocol-relative embed repaired, got %q", streams[1].EmbedURL)
	}
	if streams[1].Source != "alpha" {
		t.Fatalf("expected backend label as fallback source, got %q", streams[1].Source)
	}
}

func TestResolveCompositeFailureYieldsEmpty(t *testing.T) {
	fetcher := &fakeFetcher{
		errs: map[string]error{
			testStreamedBase + "/stream/alpha/abc": fmt.Errorf("timeout"),
		},
	}
	resolver := newTestResolver(fetcher)

	streams := resolver.Resolve(context.Background(), "Alpha", models.Locator{
		Kind:    models.LocatorComposite,
		Backend: "alpha",
		Key:     "abc",
	})
	if len(streams) != 0 {
		t.Fatalf("lookup failure must degrade to empty, got %+v", streams)
	}
}

func TestResolveKeyLowercasesLabel(t *testing.T) {
	fetcher := &fakeFetcher{
		payloads: map[string]string{
			testPPVBase + "/api/streams/star/fight-night": `[
				{"streamNo": 1, "hd": true, "embedUrl": "https://e.test/f"}
			]`,
		},
	}
	resolver := newTestResolver(fetcher)

	streams := resolver.Resolve(context.Background(), "Star", models.Locator{
		Kind: models.LocatorKey,
		Key:  "fight-night",
	})

	if len(streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(streams))
	}
	if !fetcher.called(testPPVBase + "/api/streams/star/fight-night") {
		t.Fatalf("expected lower-cased label in lookup path, calls: %v", fetcher.calls)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	resolver := newTestResolver(&noNetworkFetcher{t: t})
	if streams := resolver.Resolve(context.Background(), "X", models.Locator{Kind: "mystery"}); len(streams) != 0 {
		t.Fatalf("unknown kinds must resolve to empty, got %+v", streams)
	}
}

func TestIframeEmbedURL(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain url", "https://x.test/a", "https://x.test/a"},
		{"markup double quotes", `<iframe src="https://x.test/a" allowfullscreen></iframe>`, "https://x.test/a"},
		{"markup single quotes", `<iframe src='https://x.test/a'></iframe>`, "https://x.test/a"},
		{"protocol relative", "//cdn.test/v", "https://cdn.test/v"},
		{"markup without src", "<iframe></iframe>", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := iframeEmbedURL(tc.in); got != tc.want {
				t.Fatalf("iframeEmbedURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
