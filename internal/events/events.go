package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypePostPublished = "post.published"
)

// PostPublished represents "author A published post P". It is raised exactly
// once per successful post creation and exists only for the duration of
// dispatch; it is never persisted.
type PostPublished struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	AuthorID   uint      `json:"author_id"`
	PostID     uint      `json:"post_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPostPublished builds a PostPublished event with a fresh event id
func NewPostPublished(authorID, postID uint) PostPublished {
	return PostPublished{
		EventID:    uuid.NewString(),
		EventType:  EventTypePostPublished,
		AuthorID:   authorID,
		PostID:     postID,
		OccurredAt: time.Now(),
	}
}
