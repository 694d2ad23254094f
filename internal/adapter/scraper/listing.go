package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Getter performs a GET that fails on any status other than 200.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Scraper reads a directory listing page and returns the hrefs of the
// files it links to.
type Scraper struct {
	client Getter
	filter *Filter
}

func NewScraper(client Getter, filter *Filter) *Scraper {
	return &Scraper{
		client: client,
		filter: filter,
	}
}

// FetchListing downloads pageURL and returns the anchor hrefs whose file
// name passes the filter, in page order without duplicates.
func (s *Scraper) FetchListing(ctx context.Context, pageURL string) ([]string, error) {
	resp, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	hrefs, err := ExtractHrefs(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	seen := make(map[string]struct{}, len(hrefs))
	out := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		name, err := FilenameOf(href)
		if err != nil || name == "" || strings.HasSuffix(href, "/") {
			continue
		}
		if !s.filter.Match(name) {
			continue
		}
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}
		out = append(out, href)
	}
	return out, nil
}

// ExtractHrefs returns the href attribute of every <a> element.
func ExtractHrefs(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" && a.Val != "" {
					hrefs = append(hrefs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return hrefs, nil
}

// FilenameOf returns the unescaped last path segment of href.
func FilenameOf(href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", nil
	}
	return name, nil
}

// ResolveURL makes href absolute against the listing page URL.
func ResolveURL(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
