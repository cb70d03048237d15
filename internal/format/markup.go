package format

import (
	"regexp"
	"strings"
)

// MentionResolver resolves a Slack user ID to a bare display name, used by
// CleanMarkup to turn <@Uxxxx> into "@display". Implemented by
// internal/cache.UserCache's GetDisplayName.
type MentionResolver interface {
	GetDisplayName(id string) string
}

var (
	channelWithLabelRe = regexp.MustCompile(`<#([A-Z0-9]+)\|([^>]*)>`)
	channelBareRe       = regexp.MustCompile(`<#([A-Z0-9]+)>`)
	linkWithLabelRe     = regexp.MustCompile(`<((?:https?|mailto)[^|>]*)\|([^>]*)>`)
	linkBareRe          = regexp.MustCompile(`<((?:https?|mailto)[^>]*)>`)
	mentionRe           = regexp.MustCompile(`<@([A-Z0-9]+)>`)
)

// CleanMarkup normalizes Slack message markup per spec §4.5: link/channel
// tokens convert first, then @mentions resolve via the UserCache, then
// HTML entities decode last (so entities embedded in link labels survive
// step 1 intact).
func CleanMarkup(text string, users MentionResolver) string {
	if text == "" {
		return ""
	}

	text = channelWithLabelRe.ReplaceAllString(text, "#$2")
	text = channelBareRe.ReplaceAllString(text, "#$1")
	text = linkWithLabelRe.ReplaceAllString(text, "[$2]($1)")
	text = linkBareRe.ReplaceAllString(text, "$1")

	text = mentionRe.ReplaceAllStringFunc(text, func(m string) string {
		id := mentionRe.FindStringSubmatch(m)[1]
		if users != nil {
			if display := users.GetDisplayName(id); display != "" {
				return "@" + display
			}
		}
		return "@" + id
	})

	text = decodeEntities(text)

	return text
}

func decodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}
