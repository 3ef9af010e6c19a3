package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/store"
	"github.com/stylie-ai/stylist-platform/pkg/cache"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
	"github.com/stylie-ai/stylist-platform/pkg/metrics"
)

// ProfileService reads and writes owner profiles through a short-lived cache.
type ProfileService struct {
	profiles *store.Profiles
	cache    cache.Cache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewProfileService creates a new profile service. A zero ttl disables caching.
func NewProfileService(profiles *store.Profiles, c cache.Cache, ttl time.Duration, log *logger.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		cache:    c,
		ttl:      ttl,
		logger:   log,
	}
}

func profileKey(owner string) string {
	return "profile:" + owner
}

// Get returns the owner's profile, or NotFound.
func (s *ProfileService) Get(ctx context.Context, owner string) (*model.Profile, error) {
	if p, ok := s.cached(owner); ok {
		return p, nil
	}

	p, err := s.profiles.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		if b, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(profileKey(owner), b, s.ttl); err != nil {
				s.logger.Warn("failed to cache profile", zap.Error(err))
			}
		}
	}
	return p, nil
}

func (s *ProfileService) cached(owner string) (*model.Profile, bool) {
	if s.ttl <= 0 {
		return nil, false
	}

	b, err := s.cache.Get(profileKey(owner))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("profile cache lookup failed", zap.Error(err))
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var p model.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &p, true
}

// Upsert merges the set fields of p into the owner's profile. The email comes
// from the verified token when present, otherwise from p; one is required.
func (s *ProfileService) Upsert(ctx context.Context, owner, tokenEmail string, p *model.Profile) (*model.Profile, error) {
	email := strings.TrimSpace(tokenEmail)
	if email == "" {
		email = strings.TrimSpace(p.Email)
	}
	if email == "" {
		return nil, apperr.InvalidInput("email is required on profile")
	}

	patch := *p
	patch.UserID = owner
	patch.Email = email

	if _, err := s.profiles.Merge(ctx, owner, &patch); err != nil {
		return nil, err
	}
	s.invalidate(owner)
	return &patch, nil
}

// SetImageURL records a new profile photo, keeping the email on the document
// when the caller's token carries one.
func (s *ProfileService) SetImageURL(ctx context.Context, owner, tokenEmail, url string) error {
	patch := &model.Profile{UserID: owner, Email: tokenEmail, ImageURL: url}
	if _, err := s.profiles.Merge(ctx, owner, patch); err != nil {
		return err
	}
	s.invalidate(owner)
	return nil
}

func (s *ProfileService) invalidate(owner string) {
	if err := s.cache.Delete(profileKey(owner)); err != nil {
		s.logger.Warn("failed to invalidate cached profile", zap.Error(err))
	}
}
