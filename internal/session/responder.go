package session

import (
	"fmt"
	"strings"
)

// Responder turns a final transcript into a reply string. The policy is
// deliberately simple; callers only depend on getting a non-empty reply.
type Responder struct{}

// NewResponder creates a responder.
func NewResponder() *Responder {
	return &Responder{}
}

// Reply formulates the bot's reply to a final transcript.
func (r *Responder) Reply(transcript string) string {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return "Sorry, I did not catch that"
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi "):
		return "Hello, it is good to hear from you"
	case strings.HasSuffix(trimmed, "?"):
		return fmt.Sprintf("That is a good question about %s", trimmed[:len(trimmed)-1])
	default:
		return fmt.Sprintf("I heard you say %s", trimmed)
	}
}
