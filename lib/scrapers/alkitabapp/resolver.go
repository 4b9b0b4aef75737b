package alkitabapp

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"kidung-scraper/lib/fetchutil"
	"kidung-scraper/lib/hymn"
)

var tracer = otel.Tracer("kidung.scrapers.alkitabapp")

type Client struct {
	http fetchutil.Fetcher
}

func NewClient(http fetchutil.Fetcher) Client {
	return Client{http: http}
}

// ResolveLyrics fetches the lyrics for a song, falling back once to the
// "A"-suffixed address when the canonical one 404s or reports
// "no such song". Transport failures become warnings, never errors: the
// result triple is always meaningful. blocks is nil when no lyrics could
// be obtained at all.
func (c Client) ResolveLyrics(ctx context.Context, songbook string, number int) (blocks []hymn.LyricBlock, urlUsed string, warnings []string) {
	ctx, span := tracer.Start(ctx, "ResolveLyrics")
	defer span.End()
	span.SetAttributes(
		attribute.String("songbook", songbook),
		attribute.Int("number", number),
	)

	base := SongURL(songbook, number)
	page, err := c.http.GetPage(ctx, base)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("alkitab.app fetch failed (base): %s", err))
	case page.NotFound():
		warnings = append(warnings, "HTTP 404 at alkitab.app (base); retry with 'A' suffix.")
	case pageSaysNoSuchSong(page.Body):
		warnings = append(warnings, "alkitab.app responded 'no such song' (base); retry with 'A' suffix.")
	default:
		parsed, ok := ParseSong(page.Body)
		if !ok || len(parsed) == 0 {
			warnings = append(warnings, "no .lagu/.lirik found at alkitab.app (base)")
		} else if !hymn.HasParts(parsed) {
			warnings = append(warnings, "no parts (bait/reff) found at alkitab.app (base)")
		}
		// an empty or partless page is still this song's page, the "A"
		// variant is only for missing entries
		return parsed, base, warnings
	}

	alt := base + "A"
	slog.DebugContext(ctx, "trying fallback url", "url", alt)

	page, err = c.http.GetPage(ctx, alt)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("alkitab.app fetch failed (A variant): %s", err))
		return nil, alt, warnings
	case page.NotFound():
		warnings = append(warnings, "HTTP 404 at alkitab.app (A variant).")
		return nil, alt, warnings
	case pageSaysNoSuchSong(page.Body):
		warnings = append(warnings, "alkitab.app responded 'no such song' (A variant).")
		return nil, alt, warnings
	}

	parsed, ok := ParseSong(page.Body)
	if !ok || len(parsed) == 0 {
		warnings = append(warnings, "no .lagu/.lirik found at alkitab.app (A variant).")
	} else if !hymn.HasParts(parsed) {
		warnings = append(warnings, "no parts (bait/reff) found at alkitab.app (A variant).")
	}
	warnings = append(warnings, "used 'A' suffix fallback.")
	return parsed, alt, warnings
}
