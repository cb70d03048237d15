// Package cache implements the name<->ID resolution caches for channels
// and users (spec §4.4): lazily populated, singleton-populated, with
// concurrent populate calls collapsed via singleflight so only one Slack
// call is issued no matter how many resolves race in.
package cache

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/slack-go/slack"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/zsxkib/slack-mcp-server/internal/slackapi"
)

var channelIDRe = regexp.MustCompile(`^[CDG][A-Z0-9]+$`)

const channelPageSize = 1000

// Channel is the minimal cached record per spec §3.
type Channel struct {
	ID   string
	Name string
}

// clientHolder is the slice of *slackauth.Holder this cache needs:
// resolve the currently-bound client fresh on every populate call, so a
// credential rebind (spec.md:217) is visible the next time the cache
// repopulates instead of being pinned to whatever client existed when the
// cache was constructed.
type clientHolder interface {
	Get() slackapi.API
}

// ChannelCache resolves channel names to IDs, populating itself from
// conversations.list on first use.
type ChannelCache struct {
	holder  clientHolder
	limiter *rate.Limiter
	group   singleflight.Group

	mu       sync.RWMutex
	byID     map[string]Channel
	byName   map[string]Channel
	populated bool
}

func NewChannelCache(holder clientHolder, limiter *rate.Limiter) *ChannelCache {
	return &ChannelCache{
		holder:  holder,
		limiter: limiter,
		byID:    map[string]Channel{},
		byName:  map[string]Channel{},
	}
}

// ResolveChannelID resolves a name/ID/#name input to a channel ID, per
// spec §4.4. IDs pass through unpopulated; unresolved names fall back to
// the raw input (private channels/DMs unknown to this cache).
func (c *ChannelCache) ResolveChannelID(ctx context.Context, input string) string {
	if channelIDRe.MatchString(input) {
		return input
	}

	c.ensurePopulated(ctx)

	name := strings.ToLower(strings.TrimPrefix(input, "#"))
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ch, ok := c.byName[name]; ok {
		return ch.ID
	}
	return input
}

func (c *ChannelCache) ensurePopulated(ctx context.Context) {
	c.mu.RLock()
	done := c.populated
	c.mu.RUnlock()
	if done {
		return
	}

	_, _, _ = c.group.Do("populate", func() (interface{}, error) {
		c.mu.RLock()
		already := c.populated
		c.mu.RUnlock()
		if already {
			return nil, nil
		}

		byID, byName, err := c.fetchAll(ctx)

		c.mu.Lock()
		if err == nil {
			c.byID = byID
			c.byName = byName
		}
		// Best-effort cache: populate failure seats an empty map and we
		// still mark populated so raw-ID fallbacks serve indefinitely.
		c.populated = true
		c.mu.Unlock()

		return nil, nil
	})
}

func (c *ChannelCache) fetchAll(ctx context.Context) (map[string]Channel, map[string]Channel, error) {
	byID := map[string]Channel{}
	byName := map[string]Channel{}

	api := c.holder.Get()

	params := &slack.GetConversationsParameters{
		Types:           []string{"public_channel"},
		Limit:           channelPageSize,
		ExcludeArchived: false,
	}

	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return byID, byName, err
			}
		}

		channels, cursor, err := api.GetConversationsContext(ctx, params)
		if err != nil {
			return map[string]Channel{}, map[string]Channel{}, err
		}

		for _, ch := range channels {
			rec := Channel{ID: ch.ID, Name: ch.Name}
			byID[ch.ID] = rec
			byName[strings.ToLower(ch.Name)] = rec
		}

		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	return byID, byName, nil
}

// Reset drops the populated state. Test-only per spec §9.
func (c *ChannelCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.populated = false
	c.byID = map[string]Channel{}
	c.byName = map[string]Channel{}
}

// Lookup returns the cached record for an ID, if populated and present.
func (c *ChannelCache) Lookup(id string) (Channel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.byID[id]
	return ch, ok
}
