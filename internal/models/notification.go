package models

import "time"

// Notification represents a delivered new-post notification. The unique index
// on (recipient_id, post_id) makes delivery idempotent: re-running dispatch
// for the same publication cannot record a second row for a recipient.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index;uniqueIndex:idx_recipient_post"`
	PostID      uint      `json:"post_id" gorm:"uniqueIndex:idx_recipient_post"`
	ActorID     uint      `json:"actor_id" gorm:"index"` // the author whose publication triggered this
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
