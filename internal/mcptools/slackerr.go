package mcptools

import (
	"errors"
	"strings"

	"github.com/slack-go/slack"
)

// knownCodes is the stable code set of spec §7, matching the literal
// error strings Slack's Web API returns for auth.test/conversations.*/
// users.*/search.* failures.
var knownCodes = []string{
	"invalid_auth",
	"missing_scope",
	"channel_not_found",
	"user_not_found",
	"not_in_channel",
	"thread_not_found",
}

// mapSlackError classifies a Slack API error into the stable code set of
// spec §7, carrying retry_after for rate limiting.
func mapSlackError(err error) toolError {
	if err == nil {
		return toolError{}
	}

	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		return toolError{
			Code:       "rate_limited",
			Message:    err.Error(),
			Retryable:  true,
			RetryAfter: int(rl.RetryAfter.Seconds()),
		}
	}

	msg := err.Error()
	for _, code := range knownCodes {
		if strings.Contains(msg, code) {
			return toolError{Code: code, Message: msg}
		}
	}
	if strings.Contains(msg, "internal_error") {
		return toolError{Code: "internal_error", Message: msg, Retryable: true}
	}

	return toolError{Code: "unknown_error", Message: msg}
}
