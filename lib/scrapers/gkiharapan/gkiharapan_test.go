package gkiharapan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sourcePage = `
<html><body>
<article class="entry">
  <h1 class="entry-title">NKB 024 – Tuhan Kasihanilah Kami</h1>
  <div class="entry-content">
    <p> Syair: Anonim <br/> Lagu: Tradisional </p>
    <p>do = F<br/>4 ketuk</p>
    <p></p>
  </div>
</article>
</body></html>`

func TestExtractMetadata(t *testing.T) {
	meta, err := ExtractMetadata(sourcePage)
	require.NoError(t, err)

	require.Equal(t, "NKB", meta.Songbook)
	require.Equal(t, 24, meta.Number)
	require.Equal(t, "Tuhan Kasihanilah Kami", meta.TitleText)
	require.Equal(t, "NKB 024 - Tuhan Kasihanilah Kami", meta.RawTitle)
	require.Equal(t, "Syair: Anonim\nLagu: Tradisional", meta.Info)
	require.Equal(t, "do = F", meta.Tune)
	require.Equal(t, "4 ketuk", meta.Beat)
}

func TestExtractMetadataGenericArticle(t *testing.T) {
	// no entry-content wrapper and a bare h1, the generic selectors
	// should still find everything
	page := `<article><h1>KJ 2, Suci, Suci, Suci</h1><p>Syair: Reginald Heber</p></article>`

	meta, err := ExtractMetadata(page)
	require.NoError(t, err)
	require.Equal(t, "KJ", meta.Songbook)
	require.Equal(t, 2, meta.Number)
	require.Equal(t, "Suci, Suci, Suci", meta.TitleText)
	require.Equal(t, "Syair: Reginald Heber", meta.Info)
	require.Equal(t, "", meta.Tune)
	require.Equal(t, "", meta.Beat)
}

func TestExtractMetadataNoArticle(t *testing.T) {
	_, err := ExtractMetadata(`<html><body><div>nothing here</div></body></html>`)
	require.ErrorIs(t, err, ErrNoArticle)
}

func TestExtractMetadataUnstructuredHeading(t *testing.T) {
	page := `<article class="post"><h1 class="entry-title">Lagu Tanpa Nomor</h1></article>`

	meta, err := ExtractMetadata(page)
	require.NoError(t, err)
	require.Equal(t, "", meta.Songbook)
	require.Equal(t, 0, meta.Number)
	require.Equal(t, "Lagu Tanpa Nomor", meta.TitleText)
}
