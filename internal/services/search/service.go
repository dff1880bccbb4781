package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	htmlEndpoint    = "https://html.duckduckgo.com/html/"
	instantEndpoint = "https://api.duckduckgo.com/"

	// Plain browser UA; the HTML endpoint rejects obvious bots.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"

	defaultMaxResults = 5
)

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service scrapes DuckDuckGo's HTML results page, falling back to the
// instant-answer API when the page yields nothing.
type Service struct {
	client     *http.Client
	logger     Logger
	maxResults int
	htmlURL    string
	instantURL string
}

type Option func(*Service)

// WithBaseURLs overrides the endpoints; used in tests.
func WithBaseURLs(htmlURL, instantURL string) Option {
	return func(s *Service) {
		s.htmlURL = htmlURL
		s.instantURL = instantURL
	}
}

func WithMaxResults(n int) Option {
	return func(s *Service) {
		s.maxResults = n
	}
}

func NewService(logger Logger, opts ...Option) *Service {
	s := &Service{
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		maxResults: defaultMaxResults,
		htmlURL:    htmlEndpoint,
		instantURL: instantEndpoint,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	resultLinkRe    = regexp.MustCompile(`(?s)<a[^>]*class="[^"]*result__a[^"]*"[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	resultSnippetRe = regexp.MustCompile(`(?s)<a[^>]*class="[^"]*result__snippet[^"]*"[^>]*>(.*?)</a>`)
	tagRe           = regexp.MustCompile(`<[^>]+>`)
)

// Search returns up to maxResults hits for the query.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &SearchError{Operation: "search", Message: "empty query"}
	}

	results, err := s.searchHTML(ctx, query)
	if err != nil {
		s.logger.Warn("HTML search failed, trying instant answers", "query", query, "error", err)
	}
	if len(results) > 0 {
		return results, nil
	}

	fallback, fbErr := s.instantAnswer(ctx, query)
	if fbErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, fbErr
	}
	return fallback, nil
}

func (s *Service) searchHTML(ctx context.Context, query string) ([]Result, error) {
	endpoint := s.htmlURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &SearchError{Operation: "search", Message: "building request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SearchError{Operation: "search", Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{Operation: "search", Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, &SearchError{Operation: "search", Message: "reading response", Cause: err}
	}

	return s.parseHTML(string(body)), nil
}

func (s *Service) parseHTML(page string) []Result {
	links := resultLinkRe.FindAllStringSubmatch(page, -1)
	snippets := resultSnippetRe.FindAllStringSubmatch(page, -1)

	var results []Result
	for i, link := range links {
		if len(results) >= s.maxResults {
			break
		}
		title := cleanFragment(link[2])
		target := resolveRedirect(link[1])
		if title == "" || target == "" {
			continue
		}
		snippet := ""
		if i < len(snippets) {
			snippet = capSnippet(cleanFragment(snippets[i][1]))
		}
		results = append(results, Result{Title: title, URL: target, Snippet: snippet})
	}
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	return href
}

func cleanFragment(fragment string) string {
	text := tagRe.ReplaceAllString(fragment, "")
	return strings.TrimSpace(html.UnescapeString(text))
}

// capSnippet bounds snippet length so the context block stays small.
func capSnippet(snippet string) string {
	const maxSnippetLen = 300
	runes := []rune(snippet)
	if len(runes) <= maxSnippetLen {
		return snippet
	}
	return string(runes[:maxSnippetLen]) + "..."
}

type instantResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (s *Service) instantAnswer(ctx context.Context, query string) ([]Result, error) {
	endpoint := s.instantURL + "?q=" + url.QueryEscape(query) + "&format=json&no_html=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &SearchError{Operation: "instant_answer", Message: "building request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SearchError{Operation: "instant_answer", Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{Operation: "instant_answer", Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var parsed instantResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &SearchError{Operation: "instant_answer", Message: "decoding response", Cause: err}
	}

	var results []Result
	if parsed.Answer != "" {
		results = append(results, Result{Title: query, URL: parsed.AbstractURL, Snippet: capSnippet(parsed.Answer)})
	} else if parsed.AbstractText != "" {
		results = append(results, Result{Title: parsed.Heading, URL: parsed.AbstractURL, Snippet: capSnippet(parsed.AbstractText)})
	}
	for _, topic := range parsed.RelatedTopics {
		if len(results) >= s.maxResults {
			break
		}
		if topic.Text == "" || topic.FirstURL == "" {
			continue
		}
		results = append(results, Result{Title: capSnippet(topic.Text), URL: topic.FirstURL, Snippet: capSnippet(topic.Text)})
	}
	return results, nil
}

// BuildContext renders results as a text block for the system prompt.
func BuildContext(query string, results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Web search results for %q:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "%s\n", r.Snippet)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "Source: %s\n", r.URL)
		}
	}
	b.WriteString("\nAnswer using ONLY the search results above and cite the sources.")
	return b.String()
}
