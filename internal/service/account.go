package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/store"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

// AccountService links data kept under legacy local ids to signed-in owners.
type AccountService struct {
	accounts *store.Accounts
	profiles *ProfileService
	logger   *logger.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(accounts *store.Accounts, profiles *ProfileService, log *logger.Logger) *AccountService {
	return &AccountService{accounts: accounts, profiles: profiles, logger: log}
}

// Link copies the legacy id's profile, wardrobe and chats to owner.
func (s *AccountService) Link(ctx context.Context, owner string, req *model.LinkAccountRequest) (*model.LinkAccountResponse, error) {
	legacyID := strings.TrimSpace(req.OldUserID)
	if legacyID == "" {
		return nil, apperr.InvalidInput("oldUserId is required")
	}
	if legacyID == owner {
		return &model.LinkAccountResponse{Success: true, Message: "Already linked"}, nil
	}

	res, err := s.accounts.Link(ctx, owner, legacyID, req.DeleteOld)
	if err != nil {
		return nil, err
	}

	s.profiles.invalidate(owner)
	if req.DeleteOld {
		s.profiles.invalidate(legacyID)
	}

	s.logger.Info("legacy account linked",
		zap.String("legacy_id", legacyID),
		zap.Int("chats", res.Chats),
		zap.Int("messages", res.Messages),
		zap.Int("wardrobe", res.Wardrobe),
		zap.Bool("delete_old", req.DeleteOld),
	)

	return &model.LinkAccountResponse{
		Success:  true,
		Profile:  res.Profile,
		Wardrobe: res.Wardrobe,
		Chats:    res.Chats,
		Messages: res.Messages,
	}, nil
}
