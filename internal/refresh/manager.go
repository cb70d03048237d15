// Package refresh implements the RefreshManager and RefreshScheduler of
// spec §4.6/§4.7: moving a user-mode session forward before it lapses by
// scraping the workspace home page for rotated session credentials,
// validating them against auth.test, persisting and rebinding on success,
// and retrying transient failures with exponential backoff and jitter.
package refresh

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zsxkib/slack-mcp-server/internal/authstore"
	"github.com/zsxkib/slack-mcp-server/internal/errlog"
	"github.com/zsxkib/slack-mcp-server/internal/slackauth"
)

// Validator calls Slack's auth.test to confirm a candidate token/cookie
// pair is live. The default implementation builds a throwaway client;
// tests substitute a fake.
type Validator interface {
	Validate(ctx context.Context, token, cookie string) error
}

type slackValidator struct{}

func (slackValidator) Validate(ctx context.Context, token, cookie string) error {
	client := slackauth.BuildValidationClient(token, cookie)
	_, err := client.AuthTestContext(ctx)
	return err
}

// State is a snapshot of RefreshManager's state machine, spec §4.6.1.
type State struct {
	Status              string // "idle" | "in_progress"
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastError           *Error
	ConsecutiveFailures int
	IsManualTrigger     bool
	RefreshCount        int
}

// Manager is the process-wide RefreshManager singleton (spec §9).
type Manager struct {
	store     *authstore.Store
	holder    *slackauth.Holder
	workspace string
	interval  int
	log       *errlog.Log

	fetcher   Fetcher
	validator Validator
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error

	inProgress atomic.Bool
	mu         sync.Mutex
	state      State
}

func NewManager(store *authstore.Store, holder *slackauth.Holder, workspace string, intervalDays int, log *errlog.Log) *Manager {
	m := &Manager{
		store:     store,
		holder:    holder,
		workspace: workspace,
		interval:  intervalDays,
		log:       log,
		fetcher:   newHTTPFetcher(),
		validator: slackValidator{},
		now:       time.Now,
		sleep:     ctxSleep,
	}
	m.seedState()
	return m
}

// seedState primes RefreshCount/LastSuccess from the persisted credentials
// file so totalRefreshes survives a process restart instead of resetting to
// zero, per spec's "refreshCount = prior + 1" accounting. A missing or
// unparsable store leaves the zero-value state, matching IsRefreshDue's own
// fail-open-to-false behavior.
func (m *Manager) seedState() {
	sc, err := m.store.Load()
	if err != nil {
		return
	}
	m.state.RefreshCount = sc.Metadata.RefreshCount
	if last, err := time.Parse(time.RFC3339, sc.Metadata.LastRefreshed); err == nil {
		m.state.LastSuccess = last
	}
}

// State returns a snapshot of the current RefreshManager state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsRefreshDue reports whether persisted credentials exist, are due for
// refresh, and load cleanly, per spec §4.6.2. Any load failure yields
// false rather than propagating an error.
func (m *Manager) IsRefreshDue() bool {
	sc, err := m.store.Load()
	if err != nil {
		return false
	}

	last, err := time.Parse(time.RFC3339, sc.Metadata.LastRefreshed)
	if err != nil {
		return false
	}

	due := last.Add(time.Duration(m.interval) * 24 * time.Hour)
	return !m.now().Before(due)
}

// Refresh performs exactly one refresh attempt under the CAS guard, per
// the per-call transitions of spec §4.6.1.
func (m *Manager) Refresh(ctx context.Context, isManual bool) *Error {
	if !m.acquire(isManual) {
		return errInProgress
	}
	err := m.attempt(ctx, isManual)
	m.release(err)
	return err
}

// RefreshWithRetry implements spec §4.6.4: up to maxAttempts attempts with
// exponential backoff and jitter between retryable failures, all under a
// single CAS acquisition so concurrent callers see REFRESH_IN_PROGRESS
// rather than interleaving attempts.
func (m *Manager) RefreshWithRetry(ctx context.Context, isManual bool) *Error {
	if !m.acquire(isManual) {
		return errInProgress
	}

	var last *Error
	for n := 1; n <= maxAttempts; n++ {
		last = m.attempt(ctx, isManual)
		if last == nil || !last.Retryable() || n == maxAttempts {
			break
		}
		if err := m.sleep(ctx, backoffDelay(n)); err != nil {
			last = &Error{Code: CodeNetworkError, Message: err.Error()}
			break
		}
	}

	m.release(last)
	m.logOutcome(last)
	return last
}

func (m *Manager) acquire(isManual bool) bool {
	if !m.inProgress.CompareAndSwap(false, true) {
		return false
	}
	m.mu.Lock()
	m.state.Status = "in_progress"
	m.state.LastAttempt = m.now()
	m.state.IsManualTrigger = isManual
	m.mu.Unlock()
	return true
}

func (m *Manager) release(err *Error) {
	m.mu.Lock()
	m.state.Status = "idle"
	m.state.IsManualTrigger = false
	if err == nil {
		m.state.LastSuccess = m.now()
		m.state.LastError = nil
		m.state.ConsecutiveFailures = 0
		m.state.RefreshCount++
	} else {
		m.state.LastError = err
		m.state.ConsecutiveFailures++
	}
	m.mu.Unlock()
	m.inProgress.Store(false)
}

func (m *Manager) logOutcome(err *Error) {
	if m.log == nil || err == nil {
		return
	}
	guidance := ""
	if err.Code == CodeSessionRevoked {
		guidance = " - operator action required: re-authenticate and update SLACK_USER_TOKEN/SLACK_COOKIE_D"
	}
	m.log.Append(errlog.Entry{
		Level:     errlog.LevelError,
		Component: "refresh",
		Code:      string(err.Code),
		Message:   err.Message + guidance,
		Retryable: err.Retryable(),
	})
}

// attempt runs the single-pass scrape/validate/persist/rebind sequence of
// spec §4.6.3, assuming the CAS guard is already held.
func (m *Manager) attempt(ctx context.Context, isManual bool) *Error {
	sc, err := m.store.Load()
	if err != nil {
		return &Error{Code: CodeStorageError, Message: err.Error()}
	}

	res, err := m.fetcher.Fetch(ctx, "https://"+m.workspace+".slack.com", sc.Credentials.Cookie)
	if err != nil {
		return &Error{Code: CodeNetworkError, Message: err.Error()}
	}

	switch {
	case res.StatusCode == 429:
		return &Error{Code: CodeRateLimited, Message: "workspace home page returned 429"}
	case res.StatusCode == 401 || res.StatusCode == 403:
		return &Error{Code: CodeSessionRevoked, Message: "workspace home page returned 401/403"}
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return &Error{Code: CodeNetworkError, Message: "workspace home page returned status " + strconv.Itoa(res.StatusCode)}
	}

	if isSignInPage(res.FinalURL, res.Body) {
		return &Error{Code: CodeSessionRevoked, Message: "response redirected to sign-in"}
	}

	cookie := sc.Credentials.Cookie
	if newCookie, ok := extractCookie(res.SetCookie); ok {
		cookie = newCookie
	}

	token, ok := extractToken(res.Body)
	if !ok {
		return &Error{Code: CodeInvalidResponse, Message: "no api_token found in response body"}
	}

	if err := m.validator.Validate(ctx, token, cookie); err != nil {
		if slackErrIsOneOf(err, "invalid_auth", "account_inactive") {
			return &Error{Code: CodeSessionRevoked, Message: err.Error()}
		}
		return &Error{Code: CodeInvalidResponse, Message: err.Error()}
	}

	next := sc
	next.Credentials.Token = token
	next.Credentials.Cookie = cookie
	next.Metadata.LastRefreshed = m.now().UTC().Format(time.RFC3339)
	next.Metadata.RefreshCount = sc.Metadata.RefreshCount + 1
	if isManual {
		next.Metadata.Source = authstore.SourceManualRefresh
	} else {
		next.Metadata.Source = authstore.SourceAutoRefresh
	}

	if err := m.store.Save(next); err != nil {
		return &Error{Code: CodeStorageError, Message: err.Error()}
	}

	m.holder.Rebind(token, cookie)
	return nil
}

func slackErrIsOneOf(err error, codes ...string) bool {
	msg := err.Error()
	for _, c := range codes {
		if strings.Contains(msg, c) {
			return true
		}
	}
	return false
}

