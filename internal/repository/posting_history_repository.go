package repository

import (
	"context"
	"log/slog"

	"database/sql"

	"github.com/postmux/postmux/internal/models"
)

type PostingHistoryRepository interface {
	Create(ctx context.Context, ph *models.PostingHistory) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostingHistory, error)
}

type postingHistoryRepository struct {
	db *sql.DB
}

func NewPostingHistoryRepository(db *sql.DB) PostingHistoryRepository {
	return &postingHistoryRepository{db: db}
}

func (r *postingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	query := `
		INSERT INTO posting_history (user_id, post_id, platform, platform_post_id, error_message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, ph.UserID, ph.PostID, ph.Platform, ph.PlatformID, ph.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postingHistoryRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostingHistory, error) {
	query := `
		SELECT id, user_id, post_id, platform, platform_post_id, error_message, created_at
		FROM posting_history
		WHERE post_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var history []*models.PostingHistory
	for rows.Next() {
		var ph models.PostingHistory
		if err := rows.Scan(&ph.ID, &ph.UserID, &ph.PostID, &ph.Platform, &ph.PlatformID, &ph.ErrorMessage, &ph.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &ph)
	}
	return history, rows.Err()
}
