// Package mcptools implements the ToolHandler request pipeline of spec
// §4.8: validate input, resolve channel/user references through the name
// caches, call Slack, run the FormatPipeline, strip empties, and respond
// in the uniform content/structuredContent shape. It exposes plain Go
// methods rather than importing a tool-protocol framework directly — the
// framing and transport are an external collaborator per spec §1;
// internal/mcpserver is where these are registered with one.
package mcptools

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/zsxkib/slack-mcp-server/internal/format"
)

// Content is one block of a tool response's content array.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the uniform tool response shape of spec §4.8/§6.
type Result struct {
	Content           []Content   `json:"content"`
	StructuredContent interface{} `json:"structuredContent,omitempty"`
	IsError           bool        `json:"isError,omitempty"`
}

// success formats v through Strip, marshals it once, and places the same
// stripped object in both content[0].text (as JSON) and structuredContent.
func success(v interface{}) *Result {
	stripped := format.Strip(v)
	data, err := json.Marshal(stripped)
	if err != nil {
		return failure(toolError{Code: "unknown_error", Message: "failed to marshal response: " + err.Error()})
	}
	return &Result{
		Content:           []Content{{Type: "text", Text: string(data)}},
		StructuredContent: stripped,
	}
}

// toolError is the internal representation of a mapped failure; callers
// build one via mapSlackError or a literal for capability/validation
// failures.
type toolError struct {
	Code       string
	Message    string
	Retryable  bool
	RetryAfter int
}

func failure(e toolError) *Result {
	text := "Error: " + e.Code + " - " + e.Message
	if e.RetryAfter > 0 {
		text += ". Please retry after " + strconv.Itoa(e.RetryAfter) + " seconds."
	}
	return &Result{
		Content: []Content{{Type: "text", Text: text}},
		IsError: true,
	}
}

func schemaError(message string) *Result {
	return failure(toolError{Code: "invalid_params", Message: message})
}

// restoreText reinstates the mandatory text:"" field stripping would have
// removed, per spec §4.5/§9.
func restoreText(m map[string]interface{}) {
	if _, ok := m["text"]; !ok {
		m["text"] = ""
	}
}

func splitCSVList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
