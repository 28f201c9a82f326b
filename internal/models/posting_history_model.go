package models

import "time"

// PostingHistory records one publish attempt against one platform,
// including attempts whose outcome could not be persisted on the post
// itself (the partial-failure gap).
type PostingHistory struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	Platform     string    `db:"platform" json:"platform"`
	PlatformID   string    `db:"platform_post_id" json:"platform_post_id"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
