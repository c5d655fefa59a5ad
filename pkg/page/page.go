// Package page validates page URLs and reads page information (title and
// meta tags) from HTML.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/menta2k/page-describer/pkg/types"
)

// ErrInvalidURL is returned for URLs without a scheme or host
var ErrInvalidURL = errors.New("invalid URL provided")

// maxHTMLBytes caps how much of a fetched page is parsed
const maxHTMLBytes = 10 << 20

// ValidateURL accepts any URL that has both a scheme and a host
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// ParseHTML extracts the document title and every meta tag. A meta tag is
// keyed by its name attribute, falling back to property.
func ParseHTML(r io.Reader) (types.PageInfo, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return types.PageInfo{}, fmt.Errorf("parsing HTML: %w", err)
	}

	info := types.PageInfo{Metadata: make(map[string]string)}
	if title := findElement(doc, "title"); title != nil {
		info.Title = getTextContent(title)
	}
	collectMeta(doc, info.Metadata)

	return info, nil
}

// Fetch downloads a page and parses it with ParseHTML. The returned info
// carries the URL; dimensions are left for the caller to fill from the
// screenshot.
func Fetch(ctx context.Context, client *http.Client, pageURL string) (types.PageInfo, error) {
	if err := ValidateURL(pageURL); err != nil {
		return types.PageInfo{}, err
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return types.PageInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Page-Describer/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return types.PageInfo{}, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PageInfo{}, fmt.Errorf("failed to fetch page: HTTP %d", resp.StatusCode)
	}

	info, err := ParseHTML(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return types.PageInfo{}, err
	}
	info.URL = pageURL
	return info, nil
}

func collectMeta(n *html.Node, metadata map[string]string) {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var name, property, content string
		for _, attr := range n.Attr {
			switch strings.ToLower(attr.Key) {
			case "name":
				name = attr.Val
			case "property":
				property = attr.Val
			case "content":
				content = attr.Val
			}
		}
		if name == "" {
			name = property
		}
		if name != "" {
			metadata[name] = content
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectMeta(c, metadata)
	}
}

func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

func getTextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
