package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/blob"
	"github.com/stylie-ai/stylist-platform/internal/llm"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

const (
	imageContentType = "image/png"
	maxImageBytes    = 10 << 20
)

// MediaService generates outfit images and stores uploaded photos.
type MediaService struct {
	images   llm.ImageGenerator
	blobs    blob.Storage
	profiles *ProfileService
	http     *http.Client
	now      func() time.Time
	logger   *logger.Logger
}

// NewMediaService creates a new media service. images may be nil when the
// configured provider cannot generate images.
func NewMediaService(images llm.ImageGenerator, blobs blob.Storage, profiles *ProfileService, log *logger.Logger) *MediaService {
	return &MediaService{
		images:   images,
		blobs:    blobs,
		profiles: profiles,
		http:     &http.Client{Timeout: 30 * time.Second},
		now:      time.Now,
		logger:   log,
	}
}

// GenerateImage renders prompt, copies the result into the bucket and returns
// its public URL.
func (s *MediaService) GenerateImage(ctx context.Context, owner, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apperr.InvalidInput("prompt is required")
	}
	if s.images == nil {
		return "", apperr.Upstream("image generator", fmt.Errorf("not configured"))
	}

	tmpURL, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return "", apperr.Upstream("image generator", err)
	}

	data, err := s.download(ctx, tmpURL)
	if err != nil {
		return "", apperr.Upstream("image generator", err)
	}

	path := fmt.Sprintf("generated/%s/%d.png", owner, s.now().UnixMilli())
	return s.put(ctx, path, data)
}

// UploadProfilePhoto stores a base64 image and records it on the profile.
func (s *MediaService) UploadProfilePhoto(ctx context.Context, owner, tokenEmail, imageBase64 string) (string, error) {
	data, err := decodeImage(imageBase64)
	if err != nil {
		return "", err
	}

	url, err := s.put(ctx, fmt.Sprintf("uploads/%s/profile-%d.png", owner, s.now().UnixMilli()), data)
	if err != nil {
		return "", err
	}
	if err := s.profiles.SetImageURL(ctx, owner, tokenEmail, url); err != nil {
		return "", err
	}
	return url, nil
}

// UploadWardrobeImage stores a base64 image of a wardrobe item.
func (s *MediaService) UploadWardrobeImage(ctx context.Context, owner, imageBase64 string) (string, error) {
	data, err := decodeImage(imageBase64)
	if err != nil {
		return "", err
	}
	return s.put(ctx, fmt.Sprintf("uploads/%s/wardrobe/%d.png", owner, s.now().UnixMilli()), data)
}

func (s *MediaService) put(ctx context.Context, path string, data []byte) (string, error) {
	url, err := s.blobs.Put(ctx, path, imageContentType, data)
	if err != nil {
		s.logger.Error("failed to store image", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}

func (s *MediaService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// decodeImage accepts raw base64 or a data URL.
func decodeImage(imageBase64 string) ([]byte, error) {
	payload := strings.TrimSpace(imageBase64)
	if i := strings.Index(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, apperr.InvalidInput("imageBase64 is required")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.InvalidInput("imageBase64 is not valid base64")
	}
	return data, nil
}
