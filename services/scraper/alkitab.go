package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kidung-scraper/lib/hymn"
	"kidung-scraper/lib/scrapers/alkitabapp"
)

// ScrapeAlkitabSong builds a record straight from an alkitab.app song
// page, for songbooks (KPPK, KPRI) that have no separate source pages.
// The page's own judul supplies the identity; the url's songbook and
// number fill in when the judul carries none. The returned error is fatal
// for this song only.
func (s Service) ScrapeAlkitabSong(ctx context.Context, songbook string, number int) (hymn.Record, error) {
	url := alkitabapp.SongURL(songbook, number)

	ctx, span := tracer.Start(ctx, "ScrapeAlkitabSong")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	page, err := s.fetch.GetPage(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return hymn.Record{}, fmt.Errorf("fetch song page: %w", err)
	}
	if page.StatusCode != 200 {
		return hymn.Record{}, fmt.Errorf("fetch song page: unexpected status %d", page.StatusCode)
	}

	sp, ok := alkitabapp.ParseSongPage(page.Body)
	if !ok {
		span.SetStatus(codes.Error, "no song container")
		return hymn.Record{}, fmt.Errorf("no song container at %s", url)
	}

	if sp.Songbook == "" {
		sp.Songbook = strings.ToUpper(songbook)
	}
	if sp.Number == 0 {
		sp.Number = number
	}

	rec := hymn.Record{
		Songbook:        sp.Songbook,
		Number:          sp.Number,
		TitleText:       sp.TitleText,
		Info:            songPageInfo(sp),
		Tune:            sp.Key,
		Blocks:          sp.Blocks,
		SourceURL:       url,
		LyricsSourceURL: url,
		FetchedAt:       time.Now().UTC(),
	}
	rec.Warnings = validate(rec)
	if len(rec.Warnings) > 0 {
		slog.WarnContext(ctx, "key fields issue",
			"url", url, "warnings", strings.Join(rec.Warnings, "; "))
	}

	return rec, nil
}

// songPageInfo joins the page's attribution fields into the record's
// free-text info, one per line.
func songPageInfo(sp alkitabapp.SongPage) string {
	var lines []string
	for _, l := range []string{sp.OriginalTitle, sp.LyricAuthor, sp.MusicAuthor} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// ProcessRange crawls alkitab.app pages 1..max for a songbook with no
// link file, where the number range is the only index. Per-song errors
// (404 past the real end of the book included) are counted and skipped;
// only a store error aborts.
func (s Service) ProcessRange(ctx context.Context, songbook string, max int) (Summary, error) {
	ctx, span := tracer.Start(ctx, "ProcessRange")
	defer span.End()
	span.SetAttributes(
		attribute.String("songbook", songbook),
		attribute.Int("max", max),
	)

	numbers := make([]int, 0, max)
	for n := 1; n <= max; n++ {
		numbers = append(numbers, n)
	}
	if s.opts.SampleSize > 0 && len(numbers) > s.opts.SampleSize {
		numbers = sample(numbers, s.opts.SampleSize)
		slog.InfoContext(ctx, "testing mode, sampling numbers",
			"songbook", songbook, "count", len(numbers))
	}

	var summary Summary
	for i, number := range numbers {
		slog.InfoContext(ctx, "scraping song",
			"songbook", songbook, "progress", fmt.Sprintf("%d/%d", i+1, len(numbers)), "number", number)

		rec, err := s.ScrapeAlkitabSong(ctx, songbook, number)
		if err != nil {
			slog.ErrorContext(ctx, "song skipped",
				"songbook", songbook, "number", number, "err", err)
			summary.Failed++
			continue
		}

		err = s.store.Upsert(ctx, rec)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store upsert failed")
			return summary, fmt.Errorf("upsert %s/%d: %w", rec.Songbook, rec.Number, err)
		}
		if len(rec.Warnings) > 0 {
			slog.WarnContext(ctx, "saved with warnings",
				"songbook", songbook, "number", number, "warnings", strings.Join(rec.Warnings, "; "))
		} else {
			slog.DebugContext(ctx, "saved", "songbook", songbook, "number", number)
		}
		summary.Succeeded++

		if s.opts.Delay > 0 && i < len(numbers)-1 {
			select {
			case <-time.After(s.opts.Delay):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		}
	}

	slog.InfoContext(ctx, "songbook done",
		"songbook", songbook, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary, nil
}
