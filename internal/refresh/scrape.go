package refresh

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const scrapeUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

// FetchResult is the part of an HTTP response the extraction steps in spec
// §4.6.3 look at.
type FetchResult struct {
	StatusCode int
	FinalURL   string
	Body       string
	SetCookie  []string
}

// Fetcher performs the workspace-home-page scrape. The real implementation
// hits the network; tests substitute a fake.
type Fetcher interface {
	Fetch(ctx context.Context, url, cookie string) (*FetchResult, error)
}

type httpFetcher struct {
	client *http.Client
}

func newHTTPFetcher() *httpFetcher {
	return &httpFetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *httpFetcher) Fetch(ctx context.Context, url, cookie string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", "d="+cookie)
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &FetchResult{
		StatusCode: resp.StatusCode,
		FinalURL:   finalURL,
		Body:       string(body),
		SetCookie:  resp.Header.Values("Set-Cookie"),
	}, nil
}

var (
	setCookieSplitRe = regexp.MustCompile(`,\s*([^=;,\s]+=)`)
	cookiePairRe     = regexp.MustCompile(`(?:^|;\s*)d=([^;]+)`)

	tokenQuotedRe = regexp.MustCompile(`"api_token"\s*:\s*"(xoxc-[^"]+)"`)
	tokenLooseRe  = regexp.MustCompile(`api_token\s*:\s*['"]?(xoxc-[^'",}\s]+)`)

	signInIndicators = []string{
		`action="/signin"`,
		`action="/sign_in"`,
		"You need to sign in",
		"Sign in to Slack",
	}
)

// extractCookie implements spec §4.6.3 step 3: split Set-Cookie header
// values on commas that precede a new cookie-pair (not inside a single
// pair's Expires date), then take the first "d=xoxd-..." value found.
func extractCookie(setCookie []string) (string, bool) {
	for _, header := range setCookie {
		var parts []string
		start := 0
		for _, loc := range setCookieSplitRe.FindAllStringSubmatchIndex(header, -1) {
			parts = append(parts, header[start:loc[0]])
			start = loc[2]
		}
		parts = append(parts, header[start:])
		for _, part := range parts {
			m := cookiePairRe.FindStringSubmatch(part)
			if m == nil {
				continue
			}
			val := strings.TrimSpace(m[1])
			if strings.HasPrefix(val, "xoxd-") {
				return val, true
			}
		}
	}
	return "", false
}

// extractToken implements spec §4.6.3 step 4, trying the strict quoted form
// before the looser unquoted/JS-literal form.
func extractToken(body string) (string, bool) {
	if m := tokenQuotedRe.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	if m := tokenLooseRe.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	return "", false
}

// isSignInPage implements the sign-in detection in spec §4.6.3 step 2.
func isSignInPage(finalURL, body string) bool {
	if strings.Contains(finalURL, "/signin") || strings.Contains(finalURL, "/sign_in") {
		return true
	}
	if strings.Contains(finalURL, "redir=") {
		return true
	}
	for _, ind := range signInIndicators {
		if strings.Contains(body, ind) {
			return true
		}
	}
	return false
}
