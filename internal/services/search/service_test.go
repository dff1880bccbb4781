package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

const resultsPage = `
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgolang.org%2Fdoc%2F&rut=abc">The <b>Go</b> Documentation</a>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgolang.org%2Fdoc%2F">Official docs for the Go language &amp; tools.</a>
</div>
<div class="result">
  <a class="result__a" href="https://go.dev/blog/">The Go Blog</a>
  <a class="result__snippet" href="https://go.dev/blog/">News from the Go project.</a>
</div>
`

func TestSearchParsesResultsPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang docs", r.URL.Query().Get("q"))
		io.WriteString(w, resultsPage)
	}))
	defer ts.Close()

	svc := NewService(noopLogger{}, WithBaseURLs(ts.URL+"/html/", ts.URL+"/instant/"))
	results, err := svc.Search(context.Background(), "golang docs")

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "The Go Documentation", results[0].Title)
	assert.Equal(t, "https://golang.org/doc/", results[0].URL)
	assert.Equal(t, "Official docs for the Go language & tools.", results[0].Snippet)

	assert.Equal(t, "The Go Blog", results[1].Title)
	assert.Equal(t, "https://go.dev/blog/", results[1].URL)
}

func TestSearchCapsResultCount(t *testing.T) {
	var page string
	for i := 0; i < 10; i++ {
		page += fmt.Sprintf(`<a class="result__a" href="https://example.com/%d">Result %d</a>`, i, i)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	svc := NewService(noopLogger{}, WithBaseURLs(ts.URL+"/html/", ts.URL+"/instant/"), WithMaxResults(3))
	results, err := svc.Search(context.Background(), "anything")

	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchFallsBackToInstantAnswer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/html/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>no results here</body></html>")
	})
	mux.HandleFunc("/instant/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Heading":"Go (programming language)","AbstractText":"Go is a statically typed language.","AbstractURL":"https://en.wikipedia.org/wiki/Go","RelatedTopics":[]}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	svc := NewService(noopLogger{}, WithBaseURLs(ts.URL+"/html/", ts.URL+"/instant/"))
	results, err := svc.Search(context.Background(), "go language")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Go (programming language)", results[0].Title)
	assert.Equal(t, "Go is a statically typed language.", results[0].Snippet)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewService(noopLogger{})
	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
}

func TestResolveRedirect(t *testing.T) {
	raw := "//duckduckgo.com/l/?uddg=" + url.QueryEscape("https://example.com/page?a=1") + "&rut=xyz"
	assert.Equal(t, "https://example.com/page?a=1", resolveRedirect(raw))
	assert.Equal(t, "https://plain.example.com/", resolveRedirect("https://plain.example.com/"))
}

func TestBuildContext(t *testing.T) {
	results := []Result{
		{Title: "First", URL: "https://a.example", Snippet: "alpha"},
		{Title: "Second", URL: "https://b.example", Snippet: "beta"},
	}
	text := BuildContext("query terms", results)

	assert.Contains(t, text, `Web search results for "query terms":`)
	assert.Contains(t, text, "1. First")
	assert.Contains(t, text, "Source: https://a.example")
	assert.Contains(t, text, "2. Second")
	assert.Contains(t, text, "ONLY the search results above")

	assert.Empty(t, BuildContext("query", nil))
}

func TestCapSnippet(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "0123456789"
	}
	capped := capSnippet(long)
	assert.Len(t, []rune(capped), 303)
	assert.Equal(t, "...", capped[len(capped)-3:])

	assert.Equal(t, "short", capSnippet("short"))
}
