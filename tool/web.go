package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const userAgent = "AgentHub/1.0"

var (
	resultLinkPattern    = regexp.MustCompile(`<a rel="nofollow" class="result__a" href="([^"]+)"[^>]*>(.+?)</a>`)
	resultSnippetPattern = regexp.MustCompile(`<a class="result__snippet"[^>]*>(.+?)</a>`)
	titlePattern         = regexp.MustCompile(`(?s)<title[^>]*>(.*?)</title>`)
	scriptPattern        = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`)
	stylePattern         = regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`)
	tagPattern           = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// WebSearch queries the DuckDuckGo HTML endpoint and extracts result links.
type WebSearch struct {
	client   *http.Client
	endpoint string
}

// NewWebSearch constructs the search tool.
func NewWebSearch(optFns ...func(t *WebSearch)) *WebSearch {
	t := &WebSearch{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: "https://html.duckduckgo.com/html/",
	}
	for _, fn := range optFns {
		fn(t)
	}
	return t
}

// WithSearchEndpoint overrides the search endpoint, for tests.
func WithSearchEndpoint(endpoint string) func(t *WebSearch) {
	return func(t *WebSearch) { t.endpoint = endpoint }
}

// Name implements Tool.
func (t *WebSearch) Name() string { return "web_search" }

// Description implements Tool.
func (t *WebSearch) Description() string {
	return "Search the web for a query and return result titles, URLs, and snippets."
}

// Call implements Tool.
func (t *WebSearch) Call(ctx context.Context, args map[string]any) (Result, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return Result{"query": query, "results": []Result{}, "error": err.Error()}, nil
	}
	req.Header.Set("User-Agent", userAgent)

	body, err := fetch(t.client, req)
	if err != nil {
		return Result{"query": query, "results": []Result{}, "error": err.Error()}, nil
	}

	results := parseSearchResults(body)
	return Result{"query": query, "results": results, "count": len(results)}, nil
}

func parseSearchResults(html string) []Result {
	links := resultLinkPattern.FindAllStringSubmatch(html, -1)
	snippets := resultSnippetPattern.FindAllStringSubmatch(html, -1)

	if len(links) > 10 {
		links = links[:10]
	}
	results := make([]Result, 0, len(links))
	for i, link := range links {
		snippet := ""
		if i < len(snippets) {
			snippet = strings.TrimSpace(tagPattern.ReplaceAllString(snippets[i][1], ""))
		}
		title := strings.TrimSpace(tagPattern.ReplaceAllString(link[2], ""))
		results = append(results, Result{
			"title":   title,
			"url":     link[1],
			"snippet": snippet,
		})
	}
	return results
}

// WebScrape fetches a URL and extracts its title and visible text.
type WebScrape struct {
	client *http.Client
}

// NewWebScrape constructs the scraping tool.
func NewWebScrape() *WebScrape {
	return &WebScrape{client: &http.Client{Timeout: 20 * time.Second}}
}

// Name implements Tool.
func (t *WebScrape) Name() string { return "web_scrape" }

// Description implements Tool.
func (t *WebScrape) Description() string {
	return "Fetch a URL and extract its title and readable text content."
}

// Call implements Tool.
func (t *WebScrape) Call(ctx context.Context, args map[string]any) (Result, error) {
	target, err := stringArg(args, "url")
	if err != nil {
		return nil, err
	}
	return t.scrape(ctx, target), nil
}

func (t *WebScrape) scrape(ctx context.Context, target string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{"url": target, "error": err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	html, err := fetch(t.client, req)
	if err != nil {
		return Result{"url": target, "error": err.Error()}
	}

	title := target
	if m := titlePattern.FindStringSubmatch(html); m != nil {
		title = strings.TrimSpace(m[1])
	}

	text := scriptPattern.ReplaceAllString(html, "")
	text = stylePattern.ReplaceAllString(text, "")
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if len(text) > 5000 {
		text = text[:5000]
	}

	return Result{"url": target, "title": title, "content": text}
}

// SummarizeURL scrapes a page and returns a condensed excerpt suitable for
// direct inclusion in a prompt.
type SummarizeURL struct {
	scrape *WebScrape
}

// NewSummarizeURL constructs the tool over an existing scraper.
func NewSummarizeURL(scrape *WebScrape) *SummarizeURL {
	return &SummarizeURL{scrape: scrape}
}

// Name implements Tool.
func (t *SummarizeURL) Name() string { return "summarize_url" }

// Description implements Tool.
func (t *SummarizeURL) Description() string {
	return "Fetch a URL and return a short excerpt of its content for summarization."
}

// Call implements Tool.
func (t *SummarizeURL) Call(ctx context.Context, args map[string]any) (Result, error) {
	target, err := stringArg(args, "url")
	if err != nil {
		return nil, err
	}
	res := t.scrape.scrape(ctx, target)
	if errMsg, ok := res["error"]; ok {
		return Result{"url": target, "error": errMsg}, nil
	}
	content, _ := res["content"].(string)
	if len(content) > 1500 {
		content = content[:1500]
	}
	return Result{"url": target, "title": res["title"], "excerpt": content}, nil
}

func fetch(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s from %s", resp.Status, req.URL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
