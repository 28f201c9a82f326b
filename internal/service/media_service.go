package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/postmux/postmux/internal/models"
	"github.com/postmux/postmux/internal/repository"
)

type MediaService interface {
	Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.MediaAsset, error)
	List(ctx context.Context, userID int64) ([]*models.MediaAsset, error)
	Get(ctx context.Context, userID, assetID int64) (*models.MediaAsset, error)
	Delete(ctx context.Context, userID, assetID int64) error
}

type mediaService struct {
	ma repository.MediaAssetRepository
	r2 *R2Service
}

func NewMediaService(ma repository.MediaAssetRepository, r2 *R2Service) MediaService {
	return &mediaService{ma: ma, r2: r2}
}

// allowedExtensions holds the sniffed extensions we accept. The check
// runs on file content, not on the uploaded name. Video entries must stay
// in step with platform.IsVideo so an asset stored as video is also
// published as one.
var allowedExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "gif": {},
	"mp4": {}, "mov": {}, "avi": {},
}

var videoExtensions = map[string]struct{}{
	"mp4": {}, "mov": {}, "avi": {},
}

func (s *mediaService) Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.MediaAsset, error) {
	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	kind, err := filetype.Match(fileBytes)
	if err != nil || kind == types.Unknown {
		return nil, fmt.Errorf("unsupported file type")
	}
	if _, ok := allowedExtensions[kind.Extension]; !ok {
		return nil, fmt.Errorf("file type %s is not allowed", kind.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	key = fmt.Sprintf("%s.%s", key, kind.Extension)

	if err := s.r2.UploadToR2(ctx, key, fileBytes, kind.MIME.Value); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	fileClass := "image"
	if _, ok := videoExtensions[kind.Extension]; ok {
		fileClass = "video"
	}

	ma := models.MediaAsset{
		UserID:   userID,
		FileName: file.Filename,
		FileType: fileClass,
		FileSize: int64(len(fileBytes)),
		FileURL:  s.r2.PublicURL(key),
		MimeType: kind.MIME.Value,
	}

	assetID, err := s.ma.Create(ctx, nil, &ma)
	if err != nil {
		// The object is already in R2; remove it so a failed insert
		// does not leak storage.
		if delErr := s.r2.DeleteFromR2(ctx, key); delErr != nil {
			slog.Info("orphaned object left in storage", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("error saving media file: %w", err)
	}
	ma.ID = assetID

	return &ma, nil
}

func (s *mediaService) List(ctx context.Context, userID int64) ([]*models.MediaAsset, error) {
	return s.ma.ListByUserID(ctx, userID)
}

func (s *mediaService) Get(ctx context.Context, userID, assetID int64) (*models.MediaAsset, error) {
	exists, err := s.ma.CheckByUserID(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("media asset %d does not exist", assetID)
	}

	asset, err := s.ma.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("media asset %d does not exist", assetID)
	}
	return asset, nil
}

func (s *mediaService) Delete(ctx context.Context, userID, assetID int64) error {
	asset, err := s.Get(ctx, userID, assetID)
	if err != nil {
		return err
	}

	if err := s.r2.DeleteFromR2(ctx, objectKey(asset.FileURL)); err != nil {
		slog.Info(err.Error())
	}

	return s.ma.Remove(ctx, assetID)
}

func objectKey(fileURL string) string {
	for i := len(fileURL) - 1; i >= 0; i-- {
		if fileURL[i] == '/' {
			return fileURL[i+1:]
		}
	}
	return fileURL
}
