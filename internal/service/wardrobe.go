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

// WardrobeService manages the owner's catalogued clothing.
type WardrobeService struct {
	wardrobe *store.Wardrobe
	logger   *logger.Logger
}

// NewWardrobeService creates a new wardrobe service.
func NewWardrobeService(wardrobe *store.Wardrobe, log *logger.Logger) *WardrobeService {
	return &WardrobeService{wardrobe: wardrobe, logger: log}
}

// Add stores an item. Name and category are required.
func (s *WardrobeService) Add(ctx context.Context, owner string, item model.WardrobeItem) (model.WardrobeItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if item.Name == "" || item.Category == "" {
		return model.WardrobeItem{}, apperr.InvalidInput("item name and category are required")
	}

	saved, err := s.wardrobe.Put(ctx, owner, item)
	if err != nil {
		return model.WardrobeItem{}, err
	}
	s.logger.Debug("wardrobe item saved", zap.String("item_id", saved.ID))
	return saved, nil
}

// List returns every item of the owner.
func (s *WardrobeService) List(ctx context.Context, owner string) ([]model.WardrobeItem, error) {
	return s.wardrobe.List(ctx, owner)
}

// Delete removes an item.
func (s *WardrobeService) Delete(ctx context.Context, owner, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return apperr.InvalidInput("item id is required")
	}
	return s.wardrobe.Delete(ctx, owner, itemID)
}
