package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript. Content is the raw
// text returned by the answering service; rendering happens at display
// time, so the stored form stays the single source of truth.
type Message struct {
	Role      Role     `json:"role"`
	Content   string   `json:"content"`
	Sources   []Source `json:"sources,omitempty"`
	FollowUps []string `json:"followUps,omitempty"`
}

// Source is one grounding citation attached to an assistant message.
// Field names follow the answering service's wire format.
type Source struct {
	DocName     string   `json:"doc_name"`
	Section     string   `json:"section,omitempty"`
	Clause      string   `json:"clause,omitempty"`
	Page        int      `json:"page"`
	HeadingPath string   `json:"heading_path,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	Snippet     string   `json:"snippet,omitempty"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const titleMaxLen = 36

// DeriveTitle builds a conversation title from the first user message.
// Titles longer than 36 characters are cut to 36 total, ending in "...".
// The title is derived once at creation and never recomputed.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen-3]) + "..."
}
