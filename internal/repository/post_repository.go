package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/postmux/postmux/internal/models"
)

var (
	ErrNotScheduled     = errors.New("post is not in scheduled status")
	ErrAlreadyPublished = errors.New("post already carries a platform id")
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByUserID(ctx context.Context, userID int64, status string) ([]*models.Post, error)
	ListOverdueScheduled(ctx context.Context, olderThan time.Time) ([]*models.Post, error)
	MarkPublished(ctx context.Context, postID int64, platformID, platformURL string, publishedAt time.Time) error
	ConfirmPublished(ctx context.Context, postID int64, publishedAt time.Time) error
	MarkFailed(ctx context.Context, postID int64, errorMessage string) error
	Cancel(ctx context.Context, postID int64) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, platform, title, description, hashtags, scheduled_time, status, platform_post_id, platform_url, published_at, error_message, created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, platform, title, description, hashtags, scheduled_time, status, platform_post_id, platform_url, published_at, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	var err error

	args := []interface{}{
		post.UserID, post.Platform, post.Title, post.Description, post.Hashtags,
		post.ScheduledTime, post.Status, post.PlatformID, post.PlatformURL,
		post.PublishedAt, post.ErrorMessage,
	}

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID int64, status string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1`
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) ListOverdueScheduled(ctx context.Context, olderThan time.Time) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 AND scheduled_time < $2`

	rows, err := r.db.QueryContext(ctx, query, models.PostStatusScheduled, olderThan)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// MarkPublished sets the platform id and URL exactly once, at the success
// transition. The guard refuses rows that already carry a platform id so a
// replayed task can never overwrite the original outcome.
func (r *postRepository) MarkPublished(ctx context.Context, postID int64, platformID, platformURL string, publishedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			platform_post_id = $2,
			platform_url = $3,
			published_at = $4,
			error_message = '',
			updated_at = $5
		WHERE id = $6 AND (platform_post_id = '' OR platform_post_id IS NULL)
	`
	result, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, platformID, platformURL, publishedAt, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrAlreadyPublished
	}
	return nil
}

// ConfirmPublished flips a natively scheduled post to published without
// touching the platform id it already carries.
func (r *postRepository) ConfirmPublished(ctx context.Context, postID int64, publishedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			published_at = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, publishedAt, time.Now(), postID, models.PostStatusScheduled)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrNotScheduled
	}
	return nil
}

func (r *postRepository) MarkFailed(ctx context.Context, postID int64, errorMessage string) error {
	query := `
		UPDATE posts
		SET status = $1,
			error_message = $2,
			updated_at = $3
		WHERE id = $4 AND status != $5
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, errorMessage, time.Now(), postID, models.PostStatusPublished)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Cancel is only legal from scheduled; the WHERE clause enforces it.
func (r *postRepository) Cancel(ctx context.Context, postID int64) error {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, models.PostStatusCancelled, time.Now(), postID, models.PostStatusScheduled)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrNotScheduled
	}
	return nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.UserID, &post.Platform, &post.Title, &post.Description,
		&post.Hashtags, &post.ScheduledTime, &post.Status, &post.PlatformID,
		&post.PlatformURL, &post.PublishedAt, &post.ErrorMessage,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
