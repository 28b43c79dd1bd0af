// Package feed writes the RSS 2.0 feed and the XML sitemap of a built site.
package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBaseURL indicates a missing or relative base URL.
var ErrBaseURL = errors.New("feed needs an absolute base URL")

// MaxItems caps the number of feed entries.
const MaxItems = 20

// Channel describes the site publishing the feed.
type Channel struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
}

// Entry is one published post, newest first when passed to RSS.
type Entry struct {
	Title   string
	Slug    string
	Date    time.Time
	Summary string
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	ManagingEdit  string    `xml:"managingEditor,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RSS writes an RSS 2.0 document for the first MaxItems entries.
// Output depends only on the arguments: lastBuildDate is the newest entry
// date and GUIDs are name-based UUIDs of each post URL.
func RSS(w io.Writer, ch Channel, entries []Entry) error {
	base, err := parseBase(ch.BaseURL)
	if err != nil {
		return err
	}

	if len(entries) > MaxItems {
		entries = entries[:MaxItems]
	}

	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		link := PageURL(base, e.Slug)
		items = append(items, rssItem{
			Title:       e.Title,
			Link:        link,
			Description: e.Summary,
			PubDate:     e.Date.Format(time.RFC1123Z),
			GUID:        rssGUID{Value: GUID(link)},
		})
	}

	doc := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:        ch.Title,
			Link:         PageURL(base, "/"),
			Description:  ch.Description,
			ManagingEdit: ch.Author,
			Items:        items,
		},
	}
	if len(entries) > 0 {
		doc.Channel.LastBuildDate = entries[0].Date.Format(time.RFC1123Z)
	}
	return encode(w, doc)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Location is one sitemap entry. A zero LastMod is omitted.
type Location struct {
	Slug    string
	LastMod time.Time
}

// Sitemap writes a sitemaps.org urlset for the given locations.
func Sitemap(w io.Writer, baseURL string, locations []Location) error {
	base, err := parseBase(baseURL)
	if err != nil {
		return err
	}

	urls := make([]sitemapURL, 0, len(locations))
	for _, loc := range locations {
		u := sitemapURL{Loc: PageURL(base, loc.Slug)}
		if !loc.LastMod.IsZero() {
			u.LastMod = loc.LastMod.Format("2006-01-02")
		}
		urls = append(urls, u)
	}

	return encode(w, sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

// GUID returns the stable feed identifier for a post URL.
func GUID(link string) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

// PageURL joins an absolute base URL and a site slug, with a trailing
// slash for directory-style pages.
func PageURL(base *url.URL, slug string) string {
	p := strings.TrimSuffix(base.Path, "/") + "/" + strings.Trim(slug, "/")
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	u := *base
	u.Path = p
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func parseBase(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, ErrBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, raw)
	}
	return u, nil
}

func encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
