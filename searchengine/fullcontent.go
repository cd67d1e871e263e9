package searchengine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// fullContentFetchTimeout bounds a single page fetch, so one slow or
// unresponsive host never stalls a whole iteration.
const fullContentFetchTimeout = 20 * time.Second

// maxFullContentBytes caps how much of a page body is read before
// boilerplate stripping, guarding memory against unexpectedly large pages.
const maxFullContentBytes = 2 << 20

var (
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]{2,}`)
)

// HTTPFullContentFetcher is the shared boilerplate-stripping page-body
// fetcher supplemented from original_source's web_search_engines/
// full_search.py: engines that don't provide full content natively
// (Wikipedia, Brave, SearXNG, SerpAPI, Google PSE) delegate to this
// instead of each rolling their own HTML-to-text conversion.
type HTTPFullContentFetcher struct {
	client *http.Client
}

// NewHTTPFullContentFetcher builds the default fetcher.
func NewHTTPFullContentFetcher() *HTTPFullContentFetcher {
	return &HTTPFullContentFetcher{client: &http.Client{Timeout: fullContentFetchTimeout}}
}

// GetFullContent fetches each item's Link and attaches a boilerplate-
// stripped text body as FullContent. A fetch failure for one item leaves
// that item's FullContent empty (falls back to its snippet downstream)
// rather than failing the whole batch.
func (f *HTTPFullContentFetcher) GetFullContent(ctx context.Context, items []types.SearchResult) ([]types.SearchResult, error) {
	out := make([]types.SearchResult, len(items))
	copy(out, items)

	for i := range out {
		body, err := f.fetch(ctx, out[i].Link)
		if err != nil {
			continue
		}
		out[i].FullContent = body
	}
	return out, nil
}

func (f *HTTPFullContentFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("searchengine: build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; deepresearch-go/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("searchengine: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("searchengine: fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFullContentBytes))
	if err != nil {
		return "", fmt.Errorf("searchengine: read body of %s: %w", rawURL, err)
	}

	return StripBoilerplate(string(body))
}

// StripBoilerplate converts an HTML document body into plain text,
// dropping script/style/nav/footer/header elements and collapsing
// whitespace, the way codenerd's web_fetch tool converts pages to
// markdown — simplified here to plain text since downstream consumers
// only need prose, not markup.
func StripBoilerplate(htmlBody string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlBody))
	if err != nil {
		return "", fmt.Errorf("searchengine: parse html: %w", err)
	}

	var b strings.Builder
	extractText(doc, &b, 0)

	return cleanWhitespace(b.String()), nil
}

func extractText(n *html.Node, b *strings.Builder, depth int) {
	if depth > 50 {
		return
	}

	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteString(" ")
		}
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "nav", "footer", "header":
			return
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "br":
			b.WriteString("\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, b, depth+1)
	}
}

func cleanWhitespace(s string) string {
	s = multiSpacePattern.ReplaceAllString(s, " ")
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
