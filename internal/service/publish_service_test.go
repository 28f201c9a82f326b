package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postmux/postmux/internal/models"
	"github.com/postmux/postmux/internal/platform"
	"github.com/postmux/postmux/internal/repository"
	"github.com/postmux/postmux/internal/transfer"
)

type fakePostRepo struct {
	posts     map[int64]*models.Post
	nextID    int64
	createErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.Post), nextID: 1}
}

func (f *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	stored := *post
	stored.ID = id
	f.posts[id] = &stored
	return id, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (f *fakePostRepo) GetByUserID(ctx context.Context, userID int64, status string) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.UserID == userID && (status == "" || p.Status == status) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePostRepo) ListOverdueScheduled(ctx context.Context, olderThan time.Time) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.Status == models.PostStatusScheduled && p.ScheduledTime.Valid && p.ScheduledTime.Time.Before(olderThan) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePostRepo) MarkPublished(ctx context.Context, postID int64, platformID, platformURL string, publishedAt time.Time) error {
	post, ok := f.posts[postID]
	if !ok || post.PlatformID != "" {
		return repository.ErrAlreadyPublished
	}
	post.Status = models.PostStatusPublished
	post.PlatformID = platformID
	post.PlatformURL = platformURL
	post.PublishedAt = sql.NullTime{Time: publishedAt, Valid: true}
	post.ErrorMessage = ""
	return nil
}

func (f *fakePostRepo) ConfirmPublished(ctx context.Context, postID int64, publishedAt time.Time) error {
	post, ok := f.posts[postID]
	if !ok || post.Status != models.PostStatusScheduled {
		return repository.ErrNotScheduled
	}
	post.Status = models.PostStatusPublished
	post.PublishedAt = sql.NullTime{Time: publishedAt, Valid: true}
	return nil
}

func (f *fakePostRepo) MarkFailed(ctx context.Context, postID int64, errorMessage string) error {
	post, ok := f.posts[postID]
	if !ok || post.Status == models.PostStatusPublished {
		return nil
	}
	post.Status = models.PostStatusFailed
	post.ErrorMessage = errorMessage
	return nil
}

func (f *fakePostRepo) Cancel(ctx context.Context, postID int64) error {
	post, ok := f.posts[postID]
	if !ok || post.Status != models.PostStatusScheduled {
		return repository.ErrNotScheduled
	}
	post.Status = models.PostStatusCancelled
	return nil
}

func (f *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	post, ok := f.posts[postID]
	return ok && post.UserID == userID, nil
}

func (f *fakePostRepo) Remove(ctx context.Context, id int64) error {
	delete(f.posts, id)
	return nil
}

type fakeAssetRepo struct {
	assets map[int64]*models.MediaAsset
}

func (f *fakeAssetRepo) Create(ctx context.Context, tx *sql.Tx, ma *models.MediaAsset) (int64, error) {
	return ma.ID, nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id int64) (*models.MediaAsset, error) {
	return f.assets[id], nil
}

func (f *fakeAssetRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.MediaAsset, error) {
	return nil, nil
}

func (f *fakeAssetRepo) CheckByUserID(ctx context.Context, assetID, userID int64) (bool, error) {
	asset, ok := f.assets[assetID]
	return ok && asset.UserID == userID, nil
}

func (f *fakeAssetRepo) Remove(ctx context.Context, id int64) error {
	delete(f.assets, id)
	return nil
}

type fakeAccountRepo struct {
	accounts map[string]*models.SocialAccount
}

func (f *fakeAccountRepo) Create(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	return 0, nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	return nil, nil
}

func (f *fakeAccountRepo) GetByUserPlatform(ctx context.Context, userID int64, platformName string) (*models.SocialAccount, error) {
	return f.accounts[platformName], nil
}

func (f *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (f *fakeAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return false, nil
}

func (f *fakeAccountRepo) Remove(ctx context.Context, id int64) error { return nil }

type fakeHistoryRepo struct {
	entries []*models.PostingHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	f.entries = append(f.entries, ph)
	return int64(len(f.entries)), nil
}

func (f *fakeHistoryRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostingHistory, error) {
	var out []*models.PostingHistory
	for _, e := range f.entries {
		if e.PostID == postID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeMediaLinkRepo struct {
	links map[int64]int64 // post id -> asset id
}

func (f *fakeMediaLinkRepo) Create(ctx context.Context, tx *sql.Tx, pm *models.PostMedia) error {
	f.links[pm.PostID] = pm.AssetID
	return nil
}

func (f *fakeMediaLinkRepo) GetByPostID(ctx context.Context, postID int64) (*models.PostMedia, error) {
	assetID, ok := f.links[postID]
	if !ok {
		return nil, nil
	}
	return &models.PostMedia{PostID: postID, AssetID: assetID}, nil
}

func (f *fakeMediaLinkRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostMedia, error) {
	return nil, nil
}

func (f *fakeMediaLinkRepo) Remove(ctx context.Context, postID int64) error { return nil }

type fakeScheduler struct {
	enqueued []int64
	delays   []time.Duration
	err      error
}

func (f *fakeScheduler) EnqueuePost(postID int64, delay time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, postID)
	f.delays = append(f.delays, delay)
	return nil
}

type publishFixture struct {
	svc       PublishService
	posts     *fakePostRepo
	history   *fakeHistoryRepo
	scheduler *fakeScheduler
}

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()
	posts := newFakePostRepo()
	assets := &fakeAssetRepo{assets: map[int64]*models.MediaAsset{
		10: {ID: 10, UserID: 1, FileName: "clip.mp4", FileType: "video", FileURL: "https://cdn.example.com/clip.mp4"},
		11: {ID: 11, UserID: 1, FileName: "pic.png", FileType: "image", FileURL: "https://cdn.example.com/pic.png"},
	}}
	history := &fakeHistoryRepo{}
	links := &fakeMediaLinkRepo{links: make(map[int64]int64)}
	scheduler := &fakeScheduler{}

	svc := NewPublishService(
		posts, assets, &fakeAccountRepo{}, history, links,
		platform.NewDispatcher(nil), scheduler, "0123456789abcdef0123456789abcdef",
	)
	return &publishFixture{svc: svc, posts: posts, history: history, scheduler: scheduler}
}

func TestPublishNow(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists published record after adapter call", func(t *testing.T) {
		f := newPublishFixture(t)
		post, result, err := f.svc.PublishNow(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", Title: "Launch", AccessToken: "tok",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "yt_mock_video_id", result.PlatformID)
		assert.Equal(t, models.PostStatusPublished, post.Status)
		assert.Equal(t, "yt_mock_video_id", post.PlatformID)
		assert.True(t, post.PublishedAt.Valid)
		require.Len(t, f.history.entries, 1)
		assert.Equal(t, "yt_mock_video_id", f.history.entries[0].PlatformID)
	})

	t.Run("unsupported platform creates no record", func(t *testing.T) {
		f := newPublishFixture(t)
		post, result, err := f.svc.PublishNow(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "myspace", AccessToken: "tok",
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Unsupported platform: myspace", result.Error)
		assert.Nil(t, post)
		assert.Empty(t, f.posts.posts)
		assert.Empty(t, f.history.entries)
	})

	t.Run("unknown asset is rejected before any adapter call", func(t *testing.T) {
		f := newPublishFixture(t)
		_, _, err := f.svc.PublishNow(ctx, 1, &transfer.PublishRequest{AssetID: 99, Platform: "youtube"})
		assert.ErrorIs(t, err, ErrAssetNotFound)
	})

	t.Run("other user's asset is rejected", func(t *testing.T) {
		f := newPublishFixture(t)
		_, _, err := f.svc.PublishNow(ctx, 2, &transfer.PublishRequest{AssetID: 10, Platform: "youtube"})
		assert.ErrorIs(t, err, ErrAssetNotFound)
	})

	t.Run("record write failure still returns platform result", func(t *testing.T) {
		f := newPublishFixture(t)
		f.posts.createErr = errors.New("db down")
		post, result, err := f.svc.PublishNow(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", AccessToken: "tok",
		})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Zero(t, post.ID)
		assert.Equal(t, "yt_mock_video_id", post.PlatformID)
	})
}

func TestSchedulePost(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(3 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("creates scheduled record and queue task", func(t *testing.T) {
		f := newPublishFixture(t)
		post, result, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", Title: "Later", ScheduledTime: future, AccessToken: "tok",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, models.PostStatusScheduled, post.Status)
		assert.Empty(t, post.PlatformID)
		require.Len(t, f.scheduler.enqueued, 1)
		assert.Equal(t, post.ID, f.scheduler.enqueued[0])
		assert.Greater(t, f.scheduler.delays[0], 2*time.Hour)
	})

	t.Run("facebook keeps native platform id on the record", func(t *testing.T) {
		f := newPublishFixture(t)
		post, result, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 11, Platform: "facebook", Title: "Later", ScheduledTime: future, AccessToken: "tok",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "fb_mock_scheduled_id", post.PlatformID)
		assert.Equal(t, models.PostStatusScheduled, post.Status)
	})

	t.Run("past time is rejected", func(t *testing.T) {
		f := newPublishFixture(t)
		past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
		_, _, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", ScheduledTime: past,
		})
		assert.ErrorIs(t, err, ErrPastSchedule)
	})

	t.Run("garbage time is rejected", func(t *testing.T) {
		f := newPublishFixture(t)
		_, _, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", ScheduledTime: "tomorrow-ish",
		})
		assert.Error(t, err)
	})
}

func TestCancelPost(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(3 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("cancels a scheduled post", func(t *testing.T) {
		f := newPublishFixture(t)
		post, _, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", ScheduledTime: future, AccessToken: "tok",
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.CancelPost(ctx, 1, post.ID))
		stored, _ := f.posts.GetByID(ctx, post.ID)
		assert.Equal(t, models.PostStatusCancelled, stored.Status)
	})

	t.Run("published post cannot be cancelled", func(t *testing.T) {
		f := newPublishFixture(t)
		post, _, err := f.svc.PublishNow(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", AccessToken: "tok",
		})
		require.NoError(t, err)
		assert.ErrorIs(t, f.svc.CancelPost(ctx, 1, post.ID), repository.ErrNotScheduled)
	})

	t.Run("unknown post is reported", func(t *testing.T) {
		f := newPublishFixture(t)
		assert.ErrorIs(t, f.svc.CancelPost(ctx, 1, 404), ErrPostNotFound)
	})
}

func TestExecuteScheduled(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(2 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("publishes a due post and sets id once", func(t *testing.T) {
		f := newPublishFixture(t)
		post, _, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", Title: "Later", ScheduledTime: future, AccessToken: "tok",
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.ExecuteScheduled(ctx, post.ID))
		stored, _ := f.posts.GetByID(ctx, post.ID)
		assert.Equal(t, models.PostStatusPublished, stored.Status)
		assert.Equal(t, "yt_mock_video_id", stored.PlatformID)

		// A stale duplicate task is a no-op.
		require.NoError(t, f.svc.ExecuteScheduled(ctx, post.ID))
		again, _ := f.posts.GetByID(ctx, post.ID)
		assert.Equal(t, "yt_mock_video_id", again.PlatformID)
	})

	t.Run("cancelled post is skipped", func(t *testing.T) {
		f := newPublishFixture(t)
		post, _, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 10, Platform: "youtube", ScheduledTime: future, AccessToken: "tok",
		})
		require.NoError(t, err)
		require.NoError(t, f.svc.CancelPost(ctx, 1, post.ID))

		require.NoError(t, f.svc.ExecuteScheduled(ctx, post.ID))
		stored, _ := f.posts.GetByID(ctx, post.ID)
		assert.Equal(t, models.PostStatusCancelled, stored.Status)
		assert.Empty(t, stored.PlatformID)
	})

	t.Run("natively scheduled facebook post is confirmed", func(t *testing.T) {
		f := newPublishFixture(t)
		post, _, err := f.svc.SchedulePost(ctx, 1, &transfer.PublishRequest{
			AssetID: 11, Platform: "facebook", ScheduledTime: future, AccessToken: "tok",
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.ExecuteScheduled(ctx, post.ID))
		stored, _ := f.posts.GetByID(ctx, post.ID)
		assert.Equal(t, models.PostStatusPublished, stored.Status)
		assert.Equal(t, "fb_mock_scheduled_id", stored.PlatformID)
	})

	t.Run("unknown post returns error", func(t *testing.T) {
		f := newPublishFixture(t)
		assert.ErrorIs(t, f.svc.ExecuteScheduled(ctx, 404), ErrPostNotFound)
	})
}

func TestUploadStatus(t *testing.T) {
	f := newPublishFixture(t)
	result := f.svc.UploadStatus(context.Background(), 1, "tiktok", "pub_123", "tok")
	require.True(t, result.Success)
	assert.NotEmpty(t, result.Status)
}
