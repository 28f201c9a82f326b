package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postmux/postmux/internal/models"
	"github.com/postmux/postmux/internal/platform"
	"github.com/postmux/postmux/internal/repository"
	"github.com/postmux/postmux/internal/transfer"
	"github.com/postmux/postmux/pkg/utils"
)

var (
	ErrAssetNotFound = errors.New("media asset not found")
	ErrPostNotFound  = errors.New("post not found")
	ErrPastSchedule  = errors.New("scheduled time must be in the future")
)

// Scheduler enqueues a deferred publish for a post. Implemented by the
// queue package; kept as an interface here to avoid an import cycle.
type Scheduler interface {
	EnqueuePost(postID int64, delay time.Duration) error
}

type PublishService interface {
	PublishNow(ctx context.Context, userID int64, req *transfer.PublishRequest) (*models.Post, *platform.Result, error)
	SchedulePost(ctx context.Context, userID int64, req *transfer.PublishRequest) (*models.Post, *platform.Result, error)
	CancelPost(ctx context.Context, userID, postID int64) error
	ListPosts(ctx context.Context, userID int64, status string) ([]*models.Post, error)
	PostInfo(ctx context.Context, userID, postID int64) (*models.Post, []*models.PostingHistory, error)
	UploadStatus(ctx context.Context, userID int64, platformName, uploadID, accessToken string) *platform.Result
	ExecuteScheduled(ctx context.Context, postID int64) error
}

type publishService struct {
	pr         repository.PostRepository
	ma         repository.MediaAssetRepository
	ac         repository.SocialAccountRepository
	ph         repository.PostingHistoryRepository
	pm         repository.PostMediaRepository
	dispatcher *platform.Dispatcher
	scheduler  Scheduler
	secretKey  string
}

func NewPublishService(
	pr repository.PostRepository,
	ma repository.MediaAssetRepository,
	ac repository.SocialAccountRepository,
	ph repository.PostingHistoryRepository,
	pm repository.PostMediaRepository,
	dispatcher *platform.Dispatcher,
	scheduler Scheduler,
	secretKey string,
) PublishService {
	return &publishService{
		pr:         pr,
		ma:         ma,
		ac:         ac,
		ph:         ph,
		pm:         pm,
		dispatcher: dispatcher,
		scheduler:  scheduler,
		secretKey:  secretKey,
	}
}

// PublishNow pushes the asset to the platform immediately. The post row is
// written strictly after the adapter call so the database never claims a
// publish that was not attempted. Routing errors short-circuit before any
// adapter call and leave no record behind; only outcomes of a real publish
// attempt are persisted.
func (s *publishService) PublishNow(ctx context.Context, userID int64, req *transfer.PublishRequest) (*models.Post, *platform.Result, error) {
	if _, ok := platform.ParsePlatform(req.Platform); !ok {
		return nil, &platform.Result{
			Success: false,
			Error:   fmt.Sprintf("Unsupported platform: %s", req.Platform),
		}, nil
	}

	asset, meta, err := s.prepare(ctx, userID, req)
	if err != nil {
		return nil, nil, err
	}

	token := s.resolveToken(ctx, userID, req.Platform, req.AccessToken)
	result := s.dispatcher.DispatchUpload(ctx, req.Platform, asset.FileURL, meta, token)

	post := s.recordOutcome(ctx, userID, asset, req, result, sql.NullTime{})
	return post, result, nil
}

// SchedulePost defers the publish. Facebook schedules natively through its
// API; the other platforms get a scheduled row plus a delayed queue task
// that performs the upload when the time arrives.
func (s *publishService) SchedulePost(ctx context.Context, userID int64, req *transfer.PublishRequest) (*models.Post, *platform.Result, error) {
	asset, meta, err := s.prepare(ctx, userID, req)
	if err != nil {
		return nil, nil, err
	}

	scheduledTime, err := parseScheduledTime(req.ScheduledTime)
	if err != nil {
		return nil, nil, err
	}
	if !scheduledTime.After(time.Now()) {
		return nil, nil, ErrPastSchedule
	}

	token := s.resolveToken(ctx, userID, req.Platform, req.AccessToken)
	result := s.dispatcher.DispatchSchedule(ctx, req.Platform, asset.FileURL, meta, token, scheduledTime)
	if !result.Success {
		return nil, result, nil
	}

	post := &models.Post{
		UserID:        userID,
		Platform:      req.Platform,
		Title:         req.Title,
		Description:   req.Description,
		Hashtags:      encodeHashtags(req.Hashtags),
		ScheduledTime: sql.NullTime{Time: scheduledTime, Valid: true},
		Status:        models.PostStatusScheduled,
	}
	// Facebook returns the real post id at schedule time; the sched_
	// tokens from the other adapters are local handles and stay off
	// the record so MarkPublished can set the id exactly once.
	if req.Platform == string(platform.Facebook) {
		post.PlatformID = result.PlatformID
		post.PlatformURL = result.URL
	}

	postID, err := s.pr.Create(ctx, nil, post)
	if err != nil {
		return nil, result, fmt.Errorf("error saving scheduled post: %w", err)
	}
	post.ID = postID
	s.linkMedia(ctx, postID, asset.ID)

	if err := s.scheduler.EnqueuePost(postID, time.Until(scheduledTime)); err != nil {
		slog.Error("scheduled post has no queue task; the sweep job will pick it up", "post_id", postID, "error", err)
	}

	return post, result, nil
}

func (s *publishService) CancelPost(ctx context.Context, userID, postID int64) error {
	exists, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return s.pr.Cancel(ctx, postID)
}

func (s *publishService) ListPosts(ctx context.Context, userID int64, status string) ([]*models.Post, error) {
	return s.pr.GetByUserID(ctx, userID, status)
}

func (s *publishService) PostInfo(ctx context.Context, userID, postID int64) (*models.Post, []*models.PostingHistory, error) {
	exists, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, ErrPostNotFound
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if post == nil {
		return nil, nil, ErrPostNotFound
	}

	history, err := s.ph.ListByPostID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return post, history, nil
}

func (s *publishService) UploadStatus(ctx context.Context, userID int64, platformName, uploadID, accessToken string) *platform.Result {
	token := s.resolveToken(ctx, userID, platformName, accessToken)
	return s.dispatcher.DispatchStatus(ctx, platformName, uploadID, token)
}

// ExecuteScheduled runs from the queue worker when a post's time arrives.
// Cancelled and already-published posts are skipped, which makes a stale
// queue task after CancelPost harmless.
func (s *publishService) ExecuteScheduled(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.Status != models.PostStatusScheduled {
		slog.Info("skipping queue task for post no longer scheduled", "post_id", postID, "status", post.Status)
		return nil
	}

	// A platform id at this point means the platform scheduled the post
	// natively and publishes it on its own; just confirm the flip.
	if post.PlatformID != "" {
		if err := s.pr.ConfirmPublished(ctx, postID, time.Now()); err != nil {
			return err
		}
		s.recordHistory(ctx, post.UserID, postID, post.Platform, post.PlatformID, "")
		return nil
	}

	asset, err := s.postAsset(ctx, postID)
	if err != nil {
		s.failPost(ctx, post, err.Error())
		return err
	}

	meta := &platform.Metadata{
		Title:       post.Title,
		Description: post.Description,
		Hashtags:    decodeHashtags(post.Hashtags),
		MediaURL:    asset.FileURL,
	}

	token := s.resolveToken(ctx, post.UserID, post.Platform, "")
	result := s.dispatcher.DispatchUpload(ctx, post.Platform, asset.FileURL, meta, token)

	if !result.Success {
		s.failPost(ctx, post, result.Error)
		return nil
	}

	if err := s.pr.MarkPublished(ctx, postID, result.PlatformID, result.URL, time.Now()); err != nil {
		// The platform accepted the upload but the row still says
		// scheduled. Log loudly; the history row below keeps the
		// platform id recoverable.
		slog.Error("publish succeeded but record update failed", "post_id", postID, "platform_post_id", result.PlatformID, "error", err)
	}
	s.recordHistory(ctx, post.UserID, postID, post.Platform, result.PlatformID, "")
	return nil
}

func (s *publishService) prepare(ctx context.Context, userID int64, req *transfer.PublishRequest) (*models.MediaAsset, *platform.Metadata, error) {
	exists, err := s.ma.CheckByUserID(ctx, req.AssetID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, ErrAssetNotFound
	}

	asset, err := s.ma.GetByID(ctx, req.AssetID)
	if err != nil {
		return nil, nil, err
	}
	if asset == nil {
		return nil, nil, ErrAssetNotFound
	}

	meta := &platform.Metadata{
		Title:            req.Title,
		Description:      req.Description,
		Hashtags:         req.Hashtags,
		MediaURL:         asset.FileURL,
		PageID:           req.PageID,
		IGUserID:         req.IGUserID,
		Privacy:          req.Privacy,
		CoverTimestampMs: req.CoverTimestampMs,
	}
	return asset, meta, nil
}

// recordOutcome persists the immediate-publish result. A failed write after
// a successful platform call is the one state the store cannot represent,
// so it gets its own error log with the platform id.
func (s *publishService) recordOutcome(ctx context.Context, userID int64, asset *models.MediaAsset, req *transfer.PublishRequest, result *platform.Result, scheduledTime sql.NullTime) *models.Post {
	post := &models.Post{
		UserID:        userID,
		Platform:      req.Platform,
		Title:         req.Title,
		Description:   req.Description,
		Hashtags:      encodeHashtags(req.Hashtags),
		ScheduledTime: scheduledTime,
	}

	if result.Success {
		post.Status = models.PostStatusPublished
		post.PlatformID = result.PlatformID
		post.PlatformURL = result.URL
		post.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	} else {
		post.Status = models.PostStatusFailed
		post.ErrorMessage = result.Error
	}

	postID, err := s.pr.Create(ctx, nil, post)
	if err != nil {
		if result.Success {
			slog.Error("publish succeeded but record write failed", "platform", req.Platform, "platform_post_id", result.PlatformID, "error", err)
		} else {
			slog.Error("record write failed for failed publish", "platform", req.Platform, "error", err)
		}
		return post
	}
	post.ID = postID

	s.linkMedia(ctx, postID, asset.ID)
	s.recordHistory(ctx, userID, postID, req.Platform, result.PlatformID, result.Error)
	return post
}

func (s *publishService) linkMedia(ctx context.Context, postID, assetID int64) {
	pm := models.PostMedia{PostID: postID, AssetID: assetID}
	if err := s.pm.Create(ctx, nil, &pm); err != nil {
		slog.Info("error linking media to post", "post_id", postID, "error", err)
	}
}

func (s *publishService) recordHistory(ctx context.Context, userID, postID int64, platformName, platformID, errorMessage string) {
	history := models.PostingHistory{
		UserID:       userID,
		PostID:       postID,
		Platform:     platformName,
		PlatformID:   platformID,
		ErrorMessage: errorMessage,
	}
	if _, err := s.ph.Create(ctx, &history); err != nil {
		slog.Info("error saving posting history", "post_id", postID, "error", err)
	}
}

func (s *publishService) failPost(ctx context.Context, post *models.Post, message string) {
	if err := s.pr.MarkFailed(ctx, post.ID, message); err != nil {
		slog.Info("error marking post failed", "post_id", post.ID, "error", err)
	}
	s.recordHistory(ctx, post.UserID, post.ID, post.Platform, "", message)
}

func (s *publishService) postAsset(ctx context.Context, postID int64) (*models.MediaAsset, error) {
	link, err := s.pm.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrAssetNotFound
	}
	asset, err := s.ma.GetByID(ctx, link.AssetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrAssetNotFound
	}
	return asset, nil
}

// resolveToken prefers a caller-supplied token, then falls back to the
// user's stored account for the platform. An empty return is fine: the
// stub transport ignores credentials entirely.
func (s *publishService) resolveToken(ctx context.Context, userID int64, platformName, explicit string) string {
	if explicit != "" {
		return explicit
	}

	account, err := s.ac.GetByUserPlatform(ctx, userID, platformName)
	if err != nil || account == nil {
		return ""
	}

	token, err := utils.Decrypt(account.AccessToken, []byte(s.secretKey))
	if err != nil {
		slog.Info("error decrypting access token", "account_id", account.ID, "error", err)
		return ""
	}
	return token
}

func parseScheduledTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid scheduled_time: %q", value)
}

func encodeHashtags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func decodeHashtags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}
