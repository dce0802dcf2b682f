// Package listing builds playlists from the server's rendered song listings.
package listing

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/tessro/jukebar/internal/core"
)

// Build scans an HTML listing in document order and returns one entry per
// distinct data-song-id. Nested elements carrying the same id (a row and
// its play, like and delete buttons) fill in fields the first occurrence
// lacked. Relative URLs are resolved against base when it is non-nil.
//
// A listing with no songs yields an empty, non-nil slice.
func Build(r io.Reader, base *url.URL) ([]core.Song, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	b := &builder{base: base, songs: []core.Song{}, byID: map[string]int{}}
	b.walk(doc)
	return b.songs, nil
}

type builder struct {
	base  *url.URL
	songs []core.Song
	byID  map[string]int
}

func (b *builder) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if id := strings.TrimSpace(attr(n, "data-song-id")); id != "" {
			b.add(id, n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *builder) add(id string, n *html.Node) {
	i, seen := b.byID[id]
	if !seen {
		b.songs = append(b.songs, core.Song{ID: id})
		i = len(b.songs) - 1
		b.byID[id] = i
	}
	s := &b.songs[i]

	if s.Title == "" {
		s.Title = firstNonEmpty(attr(n, "data-title"), attr(n, "data-song-title"), b.rowText(n, "track-title"))
	}
	if s.Artist == "" {
		s.Artist = firstNonEmpty(attr(n, "data-artist"), b.rowText(n, "track-artist"))
	}
	if s.CoverURL == "" {
		s.CoverURL = b.resolve(attr(n, "data-cover"))
	}
	if s.SourceURL == "" {
		s.SourceURL = b.resolve(attr(n, "data-song-url"))
	}
	if attr(n, "data-liked") == "true" {
		s.Liked = true
	}
}

// rowText looks for a child with class cls inside n, then inside the
// closest enclosing .track-row.
func (b *builder) rowText(n *html.Node, cls string) string {
	if el := findClass(n, cls); el != nil {
		return textContent(el)
	}
	if row := closest(n, "track-row"); row != nil {
		if el := findClass(row, cls); el != nil {
			return textContent(el)
		}
	}
	return ""
}

func (b *builder) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || b.base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.base.ResolveReference(u).String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, cls string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == cls {
			return true
		}
	}
	return false
}

func findClass(n *html.Node, cls string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, cls) {
			return c
		}
		if found := findClass(c, cls); found != nil {
			return found
		}
	}
	return nil
}

func closest(n *html.Node, cls string) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && hasClass(p, cls) {
			return p
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
