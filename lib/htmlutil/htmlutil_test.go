package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func docFromString(t *testing.T, src string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestGetText(t *testing.T) {
	doc := docFromString(t, `<table><tr><td id="cell">
		CSGE601021 - Dasar-Dasar Pemrograman 2<br>
		Kelas A
	</td></tr></table>`)
	require.Equal(
		t,
		"CSGE601021 - Dasar-Dasar Pemrograman 2\nKelas A",
		GetText(doc.Find("#cell")),
	)
}

func TestGetTextPlain(t *testing.T) {
	doc := docFromString(t, `<table><tr><td id="cell">  Asisten Dosen A  </td></tr></table>`)
	require.Equal(t, "Asisten Dosen A", GetText(doc.Find("#cell")))
}

func TestFirstAnchorHref(t *testing.T) {
	doc := docFromString(t, `<table><tr><td id="cell"><a href="/daftar/5">Daftar</a><a href="/other">x</a></td></tr></table>`)
	href, ok := FirstAnchorHref(doc.Find("#cell"))
	require.True(t, ok)
	require.Equal(t, "/daftar/5", href)

	doc = docFromString(t, `<table><tr><td id="cell">Tutup</td></tr></table>`)
	_, ok = FirstAnchorHref(doc.Find("#cell"))
	require.False(t, ok)
}
