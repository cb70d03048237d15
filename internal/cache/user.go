package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/slack-go/slack"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// User is the minimal cached record per spec §3: an ID and the display
// name chosen by the priority rule (display_name -> real_name -> name ->
// id, first non-empty; only display_name is trimmed before the check).
type User struct {
	ID          string
	DisplayName string
}

// UserCache resolves user IDs to display names, populating itself from
// users.list on first use.
type UserCache struct {
	holder  clientHolder
	limiter *rate.Limiter
	group   singleflight.Group

	mu        sync.RWMutex
	byID      map[string]User
	populated bool
}

func NewUserCache(holder clientHolder, limiter *rate.Limiter) *UserCache {
	return &UserCache{holder: holder, limiter: limiter, byID: map[string]User{}}
}

// GetDisplayName returns "display" for a known user, or "" if unknown
// (callers that need the raw-ID fallback, e.g. CleanMarkup, supply it
// themselves per spec §4.5).
func (u *UserCache) GetDisplayName(id string) string {
	u.ensurePopulated(context.Background())
	u.mu.RLock()
	defer u.mu.RUnlock()
	if rec, ok := u.byID[id]; ok {
		return rec.DisplayName
	}
	return ""
}

// Resolve returns "display (id)" for a known user, or the raw id
// otherwise, per spec §3 UserCache.resolve.
func (u *UserCache) Resolve(ctx context.Context, id string) string {
	u.ensurePopulated(ctx)
	u.mu.RLock()
	defer u.mu.RUnlock()
	if rec, ok := u.byID[id]; ok {
		return rec.DisplayName + " (" + id + ")"
	}
	return id
}

// ResolveMany resolves a deduplicated set of IDs in one populate round.
func (u *UserCache) ResolveMany(ctx context.Context, ids []string) map[string]string {
	u.ensurePopulated(ctx)

	seen := make(map[string]struct{}, len(ids))
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out[id] = u.Resolve(ctx, id)
	}
	return out
}

func (u *UserCache) ensurePopulated(ctx context.Context) {
	u.mu.RLock()
	done := u.populated
	u.mu.RUnlock()
	if done {
		return
	}

	_, _, _ = u.group.Do("populate", func() (interface{}, error) {
		u.mu.RLock()
		already := u.populated
		u.mu.RUnlock()
		if already {
			return nil, nil
		}

		byID, err := u.fetchAll(ctx)

		u.mu.Lock()
		if err == nil {
			u.byID = byID
		}
		u.populated = true
		u.mu.Unlock()

		return nil, nil
	})
}

func (u *UserCache) fetchAll(ctx context.Context) (map[string]User, error) {
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	users, err := u.holder.Get().GetUsersContext(ctx, slack.GetUsersOptionLimit(1000))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]User, len(users))
	for _, su := range users {
		byID[su.ID] = User{ID: su.ID, DisplayName: displayNameOf(su)}
	}
	return byID, nil
}

func displayNameOf(u slack.User) string {
	if name := strings.TrimSpace(u.Profile.DisplayName); name != "" {
		return name
	}
	if u.RealName != "" {
		return u.RealName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// Reset drops the populated state. Test-only per spec §9.
func (u *UserCache) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.populated = false
	u.byID = map[string]User{}
}
