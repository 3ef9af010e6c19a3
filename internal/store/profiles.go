package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/docstore"
	"github.com/stylie-ai/stylist-platform/internal/model"
)

// Profiles stores owner profiles at profiles/{owner}.
type Profiles struct {
	db docstore.Store
}

// NewProfiles creates a profile repository over db.
func NewProfiles(db docstore.Store) *Profiles {
	return &Profiles{db: db}
}

// Get loads the owner's profile.
func (p *Profiles) Get(ctx context.Context, owner string) (*model.Profile, error) {
	doc, err := p.db.Get(ctx, docstore.Join(profilesCollection, owner))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("profile", owner)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile model.Profile
	if err := fromDocument(doc.Data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// Merge writes the non-empty fields of profile into the owner's document and
// returns the fields written.
func (p *Profiles) Merge(ctx context.Context, owner string, profile *model.Profile) (map[string]any, error) {
	data, err := toDocument(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := p.db.Set(ctx, docstore.Join(profilesCollection, owner), data, true); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return data, nil
}

// toDocument relies on omitempty tags so unset fields never overwrite stored ones.
func toDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromDocument(data map[string]any, v any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
