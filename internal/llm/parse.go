package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse reports a model reply that failed to parse as the
// expected structure. It propagates unmodified to the caller; only duration
// estimation absorbs parse failures.
var ErrMalformedResponse = errors.New("malformed model response")

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// stripCodeFence removes an optional fenced code block wrapper from a reply
func stripCodeFence(content string) string {
	if m := fencedBlock.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return content
}

// parseJSONReply strips an optional code fence and unmarshals the remaining
// text into v
func parseJSONReply(content string, v any) error {
	cleaned := strings.TrimSpace(stripCodeFence(content))
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
