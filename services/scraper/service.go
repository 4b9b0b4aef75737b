// Package scraper runs the per-song pipeline: fetch the source page,
// extract metadata, resolve lyrics with fallback, validate and upsert.
// Songs are independent of each other; one song failing never aborts the
// batch, only a storage fault does.
package scraper

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kidung-scraper/lib/fetchutil"
	"kidung-scraper/lib/hymn"
	"kidung-scraper/lib/hymnstore"
	"kidung-scraper/lib/scrapers/alkitabapp"
	"kidung-scraper/lib/scrapers/gkiharapan"
)

var tracer = otel.Tracer("kidung.services.scraper")

type Options struct {
	// pause between consecutive songs, to go easy on the remote sites
	Delay time.Duration
	// when positive, only a random sample of this many links per file
	// is processed (testing mode)
	SampleSize int
}

type Service struct {
	store  hymnstore.Store
	fetch  fetchutil.Fetcher
	lyrics alkitabapp.Client
	opts   Options
}

func NewService(database *sql.DB, fetch fetchutil.Fetcher, opts Options) Service {
	return Service{
		store:  hymnstore.NewStore(database),
		fetch:  fetch,
		lyrics: alkitabapp.NewClient(fetch),
		opts:   opts,
	}
}

// ScrapeSong builds the record for a single source page. The returned
// error is fatal for this song only: a transport failure on the source
// page or its markup missing the article container.
func (s Service) ScrapeSong(ctx context.Context, url string, expectedSongbook string) (hymn.Record, error) {
	ctx, span := tracer.Start(ctx, "ScrapeSong")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	page, err := s.fetch.GetPage(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return hymn.Record{}, fmt.Errorf("fetch source page: %w", err)
	}
	if page.StatusCode != 200 {
		return hymn.Record{}, fmt.Errorf("fetch source page: unexpected status %d", page.StatusCode)
	}

	meta, err := gkiharapan.ExtractMetadata(page.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "metadata extraction failed")
		return hymn.Record{}, fmt.Errorf("extract metadata: %w", err)
	}

	expectedSongbook = strings.ToUpper(expectedSongbook)
	if meta.Songbook == "" && expectedSongbook != "" {
		meta.Songbook = expectedSongbook
		slog.WarnContext(ctx, "songbook missing in page, using expected from link file",
			"songbook", meta.Songbook, "url", url)
	}
	if meta.Songbook != "" && expectedSongbook != "" && meta.Songbook != expectedSongbook {
		slog.WarnContext(ctx, "songbook mismatch, keeping parsed value",
			"parsed", meta.Songbook, "expected", expectedSongbook, "url", url)
	}

	var blocks []hymn.LyricBlock
	var lyricsURL string
	var lyricWarns []string
	if meta.Songbook != "" && meta.Number != 0 {
		blocks, lyricsURL, lyricWarns = s.lyrics.ResolveLyrics(ctx, meta.Songbook, meta.Number)
	} else {
		lyricWarns = append(lyricWarns, "Cannot fetch alkitab.app lyrics: songbook/number not available.")
	}

	rec := hymn.Record{
		Songbook:        meta.Songbook,
		Number:          meta.Number,
		TitleText:       meta.TitleText,
		Info:            meta.Info,
		Tune:            meta.Tune,
		Beat:            meta.Beat,
		Blocks:          blocks,
		SourceURL:       url,
		LyricsSourceURL: lyricsURL,
		FetchedAt:       time.Now().UTC(),
	}
	rec.Warnings = append(validate(rec), lyricWarns...)
	if len(rec.Warnings) > 0 {
		slog.WarnContext(ctx, "key fields issue",
			"url", url, "warnings", strings.Join(rec.Warnings, "; "))
	}

	return rec, nil
}

// validate accumulates notes about missing fields; these never block
// persistence, the record is saved with the list attached.
func validate(rec hymn.Record) []string {
	var msgs []string
	if rec.Songbook == "" {
		msgs = append(msgs, "Missing songbook")
	}
	if rec.Number == 0 {
		msgs = append(msgs, "Missing number")
	}
	if rec.TitleText == "" {
		msgs = append(msgs, "Missing title")
	}
	if rec.Info == "" {
		msgs = append(msgs, "Missing info")
	}
	if len(rec.Blocks) == 0 {
		msgs = append(msgs, "No lyrics found")
	} else if !hymn.HasParts(rec.Blocks) {
		msgs = append(msgs, "No lyric parts found")
	}
	return msgs
}

// Summary counts the outcome of a batch. Records persisted with warnings
// still count as succeeded.
type Summary struct {
	Succeeded int
	Failed    int
}

func (s Summary) Add(other Summary) Summary {
	return Summary{
		Succeeded: s.Succeeded + other.Succeeded,
		Failed:    s.Failed + other.Failed,
	}
}

// ProcessLinks scrapes every link in order. Per-song errors are counted
// and skipped; a store error aborts and is returned alongside the counts
// so far.
func (s Service) ProcessLinks(ctx context.Context, songbook string, links []string) (Summary, error) {
	ctx, span := tracer.Start(ctx, "ProcessLinks")
	defer span.End()
	span.SetAttributes(
		attribute.String("songbook", songbook),
		attribute.Int("links", len(links)),
	)

	if s.opts.SampleSize > 0 && len(links) > s.opts.SampleSize {
		links = sample(links, s.opts.SampleSize)
		slog.InfoContext(ctx, "testing mode, sampling links",
			"songbook", songbook, "count", len(links))
	}

	var summary Summary
	for i, url := range links {
		slog.InfoContext(ctx, "scraping song",
			"songbook", songbook, "progress", fmt.Sprintf("%d/%d", i+1, len(links)), "url", url)

		rec, err := s.ScrapeSong(ctx, url, songbook)
		if err != nil {
			slog.ErrorContext(ctx, "song skipped",
				"songbook", songbook, "url", url, "err", err)
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
				"songbook", songbook, "url", url, "warnings", strings.Join(rec.Warnings, "; "))
		} else {
			slog.DebugContext(ctx, "saved", "songbook", songbook, "url", url)
		}
		summary.Succeeded++

		if s.opts.Delay > 0 && i < len(links)-1 {
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

// ProcessFile reads a link file and scrapes everything in it. A missing
// file is not an error, it simply contributes nothing.
func (s Service) ProcessFile(ctx context.Context, songbook string, path string) (Summary, error) {
	links, err := ReadLinks(path)
	if err != nil {
		return Summary{}, err
	}
	if len(links) == 0 {
		slog.InfoContext(ctx, "no links to process", "songbook", songbook, "file", path)
		return Summary{}, nil
	}
	return s.ProcessLinks(ctx, songbook, links)
}
