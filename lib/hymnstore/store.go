// Package hymnstore persists scraped hymn records keyed by
// (songbook, number). A write is a full replace: refetching a song
// overwrites every column, including previously stored lyrics.
package hymnstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"kidung-scraper/lib/hymn"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Upsert inserts the record or replaces the existing row with the same
// (songbook, number) wholesale. The write is a single statement, so
// concurrent upserts to the same key serialize with last-write-wins.
func (s Store) Upsert(ctx context.Context, rec hymn.Record) error {
	blocks := rec.Blocks
	if blocks == nil {
		blocks = []hymn.LyricBlock{}
	}
	lyrics, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("marshal lyric blocks: %w", err)
	}

	// warnings embed arbitrary error text, so they go in as a json array
	// rather than a joined string
	var warnings string
	if len(rec.Warnings) > 0 {
		encoded, err := json.Marshal(rec.Warnings)
		if err != nil {
			return fmt.Errorf("marshal warnings: %w", err)
		}
		warnings = string(encoded)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hymns (
			songbook, number, title_text, info, tune, beat, lyrics,
			source_url, lyrics_source_url, fetched_at, warnings
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (songbook, number) DO UPDATE SET
			title_text = excluded.title_text,
			info = excluded.info,
			tune = excluded.tune,
			beat = excluded.beat,
			lyrics = excluded.lyrics,
			source_url = excluded.source_url,
			lyrics_source_url = excluded.lyrics_source_url,
			fetched_at = excluded.fetched_at,
			warnings = excluded.warnings
	`,
		rec.Songbook,
		rec.Number,
		nullable(rec.TitleText),
		nullable(rec.Info),
		nullable(rec.Tune),
		nullable(rec.Beat),
		string(lyrics),
		rec.SourceURL,
		nullable(rec.LyricsSourceURL),
		rec.FetchedAt.Unix(),
		nullable(warnings),
	)
	return err
}

// Get returns the stored record for a key, or sql.ErrNoRows.
func (s Store) Get(ctx context.Context, songbook string, number int) (hymn.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT songbook, number, title_text, info, tune, beat, lyrics,
		       source_url, lyrics_source_url, fetched_at, warnings
		FROM hymns
		WHERE songbook = ? AND number = ?
	`, songbook, number)
	return scanRecord(row)
}

// List returns every stored record ordered by songbook then number.
func (s Store) List(ctx context.Context) ([]hymn.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT songbook, number, title_text, info, tune, beat, lyrics,
		       source_url, lyrics_source_url, fetched_at, warnings
		FROM hymns
		ORDER BY songbook, number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []hymn.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (hymn.Record, error) {
	var rec hymn.Record
	var titleText, info, tune, beat, lyricsUrl, warnings sql.NullString
	var lyrics string
	var fetchedAt int64

	err := row.Scan(
		&rec.Songbook,
		&rec.Number,
		&titleText,
		&info,
		&tune,
		&beat,
		&lyrics,
		&rec.SourceURL,
		&lyricsUrl,
		&fetchedAt,
		&warnings,
	)
	if err != nil {
		return hymn.Record{}, err
	}

	rec.TitleText = titleText.String
	rec.Info = info.String
	rec.Tune = tune.String
	rec.Beat = beat.String
	rec.LyricsSourceURL = lyricsUrl.String
	rec.FetchedAt = time.Unix(fetchedAt, 0).UTC()
	if warnings.String != "" {
		err = json.Unmarshal([]byte(warnings.String), &rec.Warnings)
		if err != nil {
			return hymn.Record{}, fmt.Errorf("unmarshal warnings: %w", err)
		}
	}

	err = json.Unmarshal([]byte(lyrics), &rec.Blocks)
	if err != nil {
		return hymn.Record{}, fmt.Errorf("unmarshal lyric blocks: %w", err)
	}
	return rec, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
