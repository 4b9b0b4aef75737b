package hymnstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kidung-scraper/lib/hymn"
	"kidung-scraper/lib/hymnstore/db"
	"kidung-scraper/lib/testutil"
)

func setupStore(t *testing.T) Store {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/hymnstore",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return NewStore(setup.DB)
}

func TestUpsertReplacesWholeRecord(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	first := hymn.Record{
		Songbook:  "KJ",
		Number:    2,
		TitleText: "Suci, Suci, Suci",
		Info:      "Syair: Reginald Heber",
		Blocks: []hymn.LyricBlock{{
			Number: "1",
			Parts: []hymn.LyricPart{
				{Kind: hymn.KindVerse, Number: "1", Text: "Suci, suci, suci"},
			},
		}},
		SourceURL:       "https://example.org/kj-002",
		LyricsSourceURL: "https://alkitab.app/KJ/2",
		FetchedAt:       time.Unix(1700000000, 0),
		Warnings:        []string{"Missing info"},
	}
	require.NoError(t, store.Upsert(ctx, first))

	second := first
	second.TitleText = "Suci, Suci, Suci (revisi)"
	second.Blocks = []hymn.LyricBlock{{
		Number: "1",
		Parts: []hymn.LyricPart{
			{Kind: hymn.KindVerse, Number: "1", Text: "Suci, suci, suci"},
			{Kind: hymn.KindRefrain, Text: "Haleluya"},
		},
	}}
	second.Warnings = nil
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.Get(ctx, "KJ", 2)
	require.NoError(t, err)
	require.Equal(t, "Suci, Suci, Suci (revisi)", got.TitleText)
	require.Len(t, got.Blocks, 1)
	require.Len(t, got.Blocks[0].Parts, 2)
	// the first write's warnings must not survive the replace
	require.Empty(t, got.Warnings)
}

func TestUpsertNilBlocksStoredAsEmpty(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, hymn.Record{
		Songbook:  "NKB",
		Number:    7,
		SourceURL: "https://example.org/nkb-007",
		FetchedAt: time.Unix(1700000000, 0),
		Warnings:  []string{"No lyrics found", "used 'A' suffix fallback"},
	}))

	got, err := store.Get(ctx, "NKB", 7)
	require.NoError(t, err)
	require.NotNil(t, got.Blocks)
	require.Empty(t, got.Blocks)
	require.Equal(t, []string{"No lyrics found", "used 'A' suffix fallback"}, got.Warnings)
}

func TestWarningsWithSeparatorTextRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	// error text inside a warning may contain "; " itself; the list must
	// come back with the same element boundaries
	warnings := []string{
		`alkitab.app fetch failed (base): Get "https://alkitab.app/KJ/9": dial tcp; connection refused`,
		"used 'A' suffix fallback.",
	}
	require.NoError(t, store.Upsert(ctx, hymn.Record{
		Songbook:  "KJ",
		Number:    9,
		SourceURL: "https://example.org/kj-009",
		FetchedAt: time.Unix(1700000000, 0),
		Warnings:  warnings,
	}))

	got, err := store.Get(ctx, "KJ", 9)
	require.NoError(t, err)
	require.Equal(t, warnings, got.Warnings)
}

func TestGetUnknownKey(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get(context.Background(), "PKJ", 999)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListOrdering(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, key := range []struct {
		songbook string
		number   int
	}{
		{"NKB", 24}, {"KJ", 10}, {"KJ", 2},
	} {
		require.NoError(t, store.Upsert(ctx, hymn.Record{
			Songbook:  key.songbook,
			Number:    key.number,
			SourceURL: "https://example.org",
			FetchedAt: time.Unix(1700000000, 0),
		}))
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "KJ", records[0].Songbook)
	require.Equal(t, 2, records[0].Number)
	require.Equal(t, 10, records[1].Number)
	require.Equal(t, "NKB", records[2].Songbook)
}
