package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID            int64        `db:"id" json:"id"`
	UserID        int64        `db:"user_id" json:"user_id"`
	Platform      string       `db:"platform" json:"platform"`
	Title         string       `db:"title" json:"title"`
	Description   string       `db:"description" json:"description"`
	Hashtags      string       `db:"hashtags" json:"hashtags"` // JSON-encoded list
	ScheduledTime sql.NullTime `db:"scheduled_time" json:"scheduled_time"`
	Status        string       `db:"status" json:"status"`
	PlatformID    string       `db:"platform_post_id" json:"platform_post_id"`
	PlatformURL   string       `db:"platform_url" json:"platform_url"`
	PublishedAt   sql.NullTime `db:"published_at" json:"published_at"`
	ErrorMessage  string       `db:"error_message" json:"error_message"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	FileName     string    `db:"file_name" json:"file_name"`
	FileType     string    `db:"file_type" json:"file_type"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	FileURL      string    `db:"file_url" json:"file_url"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type PostMedia struct {
	PostID       int64     `db:"post_id" json:"post_id"`
	AssetID      int64     `db:"asset_id" json:"asset_id"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
	PostStatusCancelled = "cancelled"
	PostStatusDraft     = "draft"
)
