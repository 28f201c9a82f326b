package service

import (
	"context"
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

type AccountService interface {
	Connect(ctx context.Context, userID int64, req *transfer.ConnectAccountRequest) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Remove(ctx context.Context, userID, accountID int64) error
}

type accountService struct {
	ac        repository.SocialAccountRepository
	secretKey string
}

func NewAccountService(ac repository.SocialAccountRepository, secretKey string) AccountService {
	return &accountService{ac: ac, secretKey: secretKey}
}

func (s *accountService) Connect(ctx context.Context, userID int64, req *transfer.ConnectAccountRequest) (int64, error) {
	p, ok := platform.ParsePlatform(req.Platform)
	if !ok {
		return 0, fmt.Errorf("Unsupported platform: %s", req.Platform)
	}
	if req.AccessToken == "" {
		return 0, errors.New("access token is required")
	}

	encrypted, err := utils.Encrypt([]byte(req.AccessToken), []byte(s.secretKey))
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("Error encrypting access token")
	}

	account := &models.SocialAccount{
		UserID:          userID,
		Platform:        string(p),
		AccountID:       req.AccountID,
		AccountName:     req.AccountName,
		AccountUsername: req.AccountUsername,
		AccessToken:     encrypted,
		TokenExpiresAt:  time.Now().Add(time.Duration(req.ExpiresIn) * time.Second),
		IsActive:        true,
	}

	id, err := s.ac.Create(ctx, nil, account)
	if err != nil {
		return 0, fmt.Errorf("Error saving social account")
	}
	return id, nil
}

func (s *accountService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return s.ac.ListByUserID(ctx, userID)
}

func (s *accountService) Remove(ctx context.Context, userID, accountID int64) error {
	isValid, err := s.ac.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("Account doesn't exist")
		slog.Info(err.Error())
		return err
	}
	return s.ac.Remove(ctx, accountID)
}
