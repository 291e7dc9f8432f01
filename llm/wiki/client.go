package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
)

const (
	// DefaultEndpoint is the English Wikipedia action API.
	DefaultEndpoint = "https://en.wikipedia.org/w/api.php"
	// DefaultUserAgent identifies this client to the MediaWiki servers.
	DefaultUserAgent = "termtutor/1.0"
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 15 * time.Second

	// SnippetMaxChars is the truncation bound for extract text handed to
	// the model. Extracts are cut on a word boundary and never exceed it.
	SnippetMaxChars = 500

	maxCategories = 5
	maxRelated    = 5

	// maxReadSize caps an API response body (1MB).
	maxReadSize = int64(1 << 20)
)

// ErrNotFound is returned when neither a direct page lookup nor the search
// fallback yields a page for the term.
var ErrNotFound = errors.New("wiki: page not found")

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	MaxChars  int
}

// Client is a read-only MediaWiki action API client. It resolves a term to a
// page directly or via full-text search, and fetches intro extracts,
// categories and article links.
type Client struct {
	endpoint   string
	userAgent  string
	maxChars   int
	httpClient *http.Client
}

// NewClient creates a Client, applying defaults for unset config fields.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = SnippetMaxChars
	}

	return &Client{
		endpoint:   endpoint,
		userAgent:  userAgent,
		maxChars:   maxChars,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Summary is the intro extract of a page, flattened to plain text and
// truncated to the configured bound.
type Summary struct {
	Title     string
	Extract   string
	Truncated bool
}

// Context carries category labels and related article titles for a page.
type Context struct {
	Title      string
	Categories []string
	Related    []string
}

// Summary resolves term to a page and returns its truncated intro extract.
// When the exact page is missing it retries with the top full-text search
// hit. Returns ErrNotFound when no candidate page exists.
func (c *Client) Summary(ctx context.Context, term string) (*Summary, error) {
	page, err := c.lookup(ctx, term, "extracts")
	if err != nil {
		return nil, err
	}

	text, err := flattenHTML(page.Extract)
	if err != nil {
		return nil, fmt.Errorf("flatten extract for %q: %w", page.Title, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty extract for %q", ErrNotFound, page.Title)
	}

	extract, truncated := Truncate(text, c.maxChars)
	return &Summary{Title: page.Title, Extract: extract, Truncated: truncated}, nil
}

// Context resolves term to a page and returns up to five category labels
// (namespace prefix stripped) and up to five related article titles. The
// same search fallback as Summary applies.
func (c *Client) Context(ctx context.Context, term string) (*Context, error) {
	page, err := c.lookup(ctx, term, "categories|links")
	if err != nil {
		return nil, err
	}

	out := &Context{Title: page.Title}
	for _, cat := range page.Categories {
		if len(out.Categories) >= maxCategories {
			break
		}
		out.Categories = append(out.Categories, stripNamespace(cat.Title))
	}
	for _, link := range page.Links {
		if len(out.Related) >= maxRelated {
			break
		}
		out.Related = append(out.Related, link.Title)
	}

	return out, nil
}

// lookup fetches the page for term with the given props, falling back to the
// top search hit when the exact title is missing.
func (c *Client) lookup(ctx context.Context, term string, props string) (*pageData, error) {
	page, err := c.page(ctx, term, props)
	if !errors.Is(err, ErrNotFound) {
		return page, err
	}

	title, err := c.search(ctx, term)
	if err != nil {
		return nil, err
	}

	return c.page(ctx, title, props)
}

func (c *Client) page(ctx context.Context, title string, props string) (*pageData, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", props)
	params.Set("titles", title)
	params.Set("redirects", "1")
	if strings.Contains(props, "extracts") {
		params.Set("exintro", "1")
	}
	if strings.Contains(props, "categories") {
		params.Set("clshow", "!hidden")
		params.Set("cllimit", "10")
	}
	if strings.Contains(props, "links") {
		params.Set("plnamespace", "0")
		params.Set("pllimit", "20")
	}

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(resp.Query.Pages) == 0 || resp.Query.Pages[0].Missing {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	return &resp.Query.Pages[0], nil
}

// search returns the title of the top full-text search hit for term.
func (c *Client) search(ctx context.Context, term string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", term)
	params.Set("srlimit", "1")

	resp, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	if len(resp.Query.Search) == 0 {
		return "", fmt.Errorf("%w: no search results for %q", ErrNotFound, term)
	}

	return resp.Query.Search[0].Title, nil
}

func (c *Client) get(ctx context.Context, params url.Values) (*apiResponse, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out apiResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &out, nil
}

type apiResponse struct {
	Query struct {
		Search []titleRef `json:"search"`
		Pages  []pageData `json:"pages"`
	} `json:"query"`
}

type pageData struct {
	Title      string     `json:"title"`
	Missing    bool       `json:"missing"`
	Extract    string     `json:"extract"`
	Categories []titleRef `json:"categories"`
	Links      []titleRef `json:"links"`
}

type titleRef struct {
	Title string `json:"title"`
}

// flattenHTML collapses an HTML extract into single-spaced plain text.
func flattenHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// Truncate cuts s to at most max bytes, preferring a word boundary and
// appending "..." when anything was removed. The result, ellipsis included,
// never exceeds max.
func Truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}

	cut := s[:max-3]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}

	return cut + "...", true
}

// stripNamespace removes the "Category:" style prefix from a page title.
func stripNamespace(title string) string {
	if idx := strings.Index(title, ":"); idx != -1 {
		return title[idx+1:]
	}
	return title
}
