package alkitabapp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"kidung-scraper/lib/fetchutil"
)

// fakeFetcher serves canned pages by url.
type fakeFetcher struct {
	pages map[string]fetchutil.Page
	errs  map[string]error
}

func (f fakeFetcher) GetPage(ctx context.Context, url string) (fetchutil.Page, error) {
	if err, ok := f.errs[url]; ok {
		return fetchutil.Page{}, err
	}
	page, ok := f.pages[url]
	if !ok {
		return fetchutil.Page{URL: url, StatusCode: 404}, nil
	}
	page.URL = url
	return page, nil
}

func TestResolveLyricsBaseSucceeds(t *testing.T) {
	client := NewClient(fakeFetcher{pages: map[string]fetchutil.Page{
		"https://alkitab.app/NKB/24": {StatusCode: 200, Body: songPage},
	}})

	blocks, url, warnings := client.ResolveLyrics(context.Background(), "NKB", 24)
	require.NotNil(t, blocks)
	require.Len(t, blocks, 1)
	require.Equal(t, "https://alkitab.app/NKB/24", url)
	require.Empty(t, warnings)
}

func TestResolveLyricsFallsBackOnNoSuchSong(t *testing.T) {
	client := NewClient(fakeFetcher{pages: map[string]fetchutil.Page{
		"https://alkitab.app/NKB/24":  {StatusCode: 200, Body: "<html>No Such Song</html>"},
		"https://alkitab.app/NKB/24A": {StatusCode: 200, Body: songPage},
	}})

	blocks, url, warnings := client.ResolveLyrics(context.Background(), "NKB", 24)
	require.Len(t, blocks, 1)
	require.Equal(t, "https://alkitab.app/NKB/24A", url)
	require.Equal(t, []string{
		"alkitab.app responded 'no such song' (base); retry with 'A' suffix.",
		"used 'A' suffix fallback.",
	}, warnings)
}

func TestResolveLyricsFallsBackOn404(t *testing.T) {
	client := NewClient(fakeFetcher{pages: map[string]fetchutil.Page{
		"https://alkitab.app/KJ/7A": {StatusCode: 200, Body: songPage},
	}})

	blocks, url, warnings := client.ResolveLyrics(context.Background(), "KJ", 7)
	require.Len(t, blocks, 1)
	require.Equal(t, "https://alkitab.app/KJ/7A", url)
	require.Equal(t, []string{
		"HTTP 404 at alkitab.app (base); retry with 'A' suffix.",
		"used 'A' suffix fallback.",
	}, warnings)
}

func TestResolveLyricsBothMissing(t *testing.T) {
	client := NewClient(fakeFetcher{})

	blocks, url, warnings := client.ResolveLyrics(context.Background(), "PKJ", 300)
	require.Nil(t, blocks)
	require.Equal(t, "https://alkitab.app/PKJ/300A", url)
	require.Len(t, warnings, 2)
}

func TestResolveLyricsEmptyPageDoesNotFallThrough(t *testing.T) {
	// the base page exists but has no groupings; the "A" variant must
	// not be tried even though it would succeed
	client := NewClient(fakeFetcher{pages: map[string]fetchutil.Page{
		"https://alkitab.app/KJ/2":  {StatusCode: 200, Body: `<div class="lagu"></div>`},
		"https://alkitab.app/KJ/2A": {StatusCode: 200, Body: songPage},
	}})

	blocks, url, warnings := client.ResolveLyrics(context.Background(), "KJ", 2)
	require.NotNil(t, blocks)
	require.Empty(t, blocks)
	require.Equal(t, "https://alkitab.app/KJ/2", url)
	require.Equal(t, []string{"no .lagu/.lirik found at alkitab.app (base)"}, warnings)
}

func TestResolveLyricsTransportErrorsBecomeWarnings(t *testing.T) {
	client := NewClient(fakeFetcher{errs: map[string]error{
		"https://alkitab.app/KJ/9":  fmt.Errorf("connection refused"),
		"https://alkitab.app/KJ/9A": fmt.Errorf("connection refused"),
	}})

	blocks, url, warnings := client.ResolveLyrics(context.Background(), "KJ", 9)
	require.Nil(t, blocks)
	require.Equal(t, "https://alkitab.app/KJ/9A", url)
	require.Len(t, warnings, 2)
	require.Contains(t, warnings[0], "fetch failed (base)")
	require.Contains(t, warnings[1], "fetch failed (A variant)")
}
