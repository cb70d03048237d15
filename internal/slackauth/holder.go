// Package slackauth derives a live, correctly-headered Slack API client
// from the active AuthConfig and keeps exactly one such client bound for
// the process, hot-swappable on refresh (spec §4.3/§9).
package slackauth

import (
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-server/internal/config"
	"github.com/zsxkib/slack-mcp-server/internal/slackapi"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

// cookieTransport injects the session cookie on every outgoing request for
// user-mode auth, per spec §4.3.
type cookieTransport struct {
	cookie string
	base   http.RoundTripper
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Cookie", "d="+t.cookie)
	r.Header.Set("User-Agent", defaultUserAgent)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}

// Holder holds the single active HTTP-bound Slack client for the process.
// Get() lazily builds it; Rebind atomically swaps it so handlers that
// resolve the client per call observe the new credentials immediately.
type Holder struct {
	mu     sync.RWMutex
	client slackapi.API
	auth   config.AuthConfig
	built  bool
}

func NewHolder(auth config.AuthConfig) *Holder {
	return &Holder{auth: auth}
}

// Get lazily constructs the client for the currently bound AuthConfig.
func (h *Holder) Get() slackapi.API {
	h.mu.RLock()
	if h.built {
		c := h.client
		h.mu.RUnlock()
		return c
	}
	h.mu.RUnlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.built {
		h.client = buildClient(h.auth)
		h.built = true
	}
	return h.client
}

// Rebind atomically replaces the active client and the cached user-mode
// AuthConfig after a successful refresh (spec §4.6.3 step 6).
func (h *Holder) Rebind(token, cookie string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.auth = config.AuthConfig{Mode: config.ModeUser, Token: token, Cookie: cookie}
	h.client = buildClient(h.auth)
	h.built = true
}

// Reset drops the constructed client so the next Get rebuilds it from the
// currently bound AuthConfig. Test-only per spec §9.
func (h *Holder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.built = false
	h.client = nil
}

// BuildValidationClient builds a standalone client for a token/cookie pair
// that isn't (yet) bound to the Holder, used by the refresh manager to call
// auth.test against candidate credentials before committing to them.
func BuildValidationClient(token, cookie string) slackapi.API {
	return buildClient(config.AuthConfig{Mode: config.ModeUser, Token: token, Cookie: cookie})
}

func buildClient(auth config.AuthConfig) slackapi.API {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	if auth.IsUser() {
		httpClient.Transport = &cookieTransport{cookie: auth.Cookie}
	}

	return slack.New(auth.Token, slack.OptionHTTPClient(httpClient))
}
