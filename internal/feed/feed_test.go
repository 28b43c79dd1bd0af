package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRSS(t *testing.T) {
	t.Parallel()

	ch := Channel{Title: "Blog", Description: "Notes", BaseURL: "https://example.com/blog"}
	entries := []Entry{
		{Title: "Second", Slug: "/2020-02-01-second", Date: day(2020, 2, 1), Summary: "two"},
		{Title: "First & <best>", Slug: "/2020-01-01-first", Date: day(2020, 1, 1), Summary: "one"},
	}

	var buf bytes.Buffer
	require.NoError(t, RSS(&buf, ch, entries))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, xml.Header))
	require.Contains(t, out, `<rss version="2.0">`)
	require.Contains(t, out, "<link>https://example.com/blog/2020-02-01-second/</link>")
	require.Contains(t, out, "First &amp; &lt;best&gt;")
	require.Contains(t, out, "<lastBuildDate>Sat, 01 Feb 2020 00:00:00 +0000</lastBuildDate>")
	require.Contains(t, out, `<guid isPermaLink="false">urn:uuid:`)

	var parsed rssXML
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.Channel.Items, 2)
	require.Equal(t, "Second", parsed.Channel.Items[0].Title)
}

func TestRSS_Deterministic(t *testing.T) {
	t.Parallel()

	ch := Channel{Title: "Blog", BaseURL: "https://example.com"}
	entries := []Entry{{Title: "A", Slug: "/a", Date: day(2021, 5, 5)}}

	var a, b bytes.Buffer
	require.NoError(t, RSS(&a, ch, entries))
	require.NoError(t, RSS(&b, ch, entries))
	require.Equal(t, a.String(), b.String())
}

func TestRSS_MaxItems(t *testing.T) {
	t.Parallel()

	entries := make([]Entry, MaxItems+5)
	for i := range entries {
		entries[i] = Entry{Title: fmt.Sprint(i), Slug: fmt.Sprintf("/p%d", i), Date: day(2020, 1, 1)}
	}

	var buf bytes.Buffer
	require.NoError(t, RSS(&buf, Channel{BaseURL: "https://example.com"}, entries))

	var parsed rssXML
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.Channel.Items, MaxItems)
}

func TestRSS_BaseURLRequired(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"", "/relative", "example.com"} {
		err := RSS(&bytes.Buffer{}, Channel{BaseURL: base}, nil)
		require.True(t, errors.Is(err, ErrBaseURL), "base %q: error %v", base, err)
	}
}

func TestSitemap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Sitemap(&buf, "https://example.com/", []Location{
		{Slug: "/"},
		{Slug: "/2020-01-01-hello", LastMod: day(2020, 1, 1)},
		{Slug: "/about"},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	require.Contains(t, out, "<loc>https://example.com/</loc>")
	require.Contains(t, out, "<loc>https://example.com/2020-01-01-hello/</loc>")
	require.Contains(t, out, "<lastmod>2020-01-01</lastmod>")
	require.Equal(t, 1, strings.Count(out, "<lastmod>"))
}

func TestGUID(t *testing.T) {
	t.Parallel()

	a := GUID("https://example.com/a/")
	require.Equal(t, a, GUID("https://example.com/a/"))
	require.NotEqual(t, a, GUID("https://example.com/b/"))
	require.True(t, strings.HasPrefix(a, "urn:uuid:"))
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		slug string
		want string
	}{
		{"https://example.com", "/", "https://example.com/"},
		{"https://example.com", "/a/b", "https://example.com/a/b/"},
		{"https://example.com/blog/", "/a", "https://example.com/blog/a/"},
		{"https://example.com/blog", "/tags/go/", "https://example.com/blog/tags/go/"},
		{"https://example.com", "/hello world", "https://example.com/hello%20world/"},
	}

	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		require.NoError(t, err)
		require.Equal(t, tt.want, PageURL(base, tt.slug))
	}
}
