package store

import (
	"fmt"

	"github.com/stylie-ai/stylist-platform/internal/model"
)

func encodeResponse(r *model.Response) map[string]any {
	if r == nil {
		return nil
	}
	tags := make([]any, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t)
	}
	out := map[string]any{
		"reply":   r.Reply,
		"explain": r.Explain,
		"tags":    tags,
	}
	if r.ImagePrompt != "" {
		out["image_prompt"] = r.ImagePrompt
	}
	return out
}

func decodeResponse(v any) *model.Response {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	r := &model.Response{
		Reply:       stringField(m, "reply"),
		Explain:     stringField(m, "explain"),
		ImagePrompt: stringField(m, "image_prompt"),
		Tags:        []string{},
	}
	switch tags := m["tags"].(type) {
	case []any:
		for _, t := range tags {
			if s, ok := t.(string); ok {
				r.Tags = append(r.Tags, s)
			}
		}
	case []string:
		r.Tags = append(r.Tags, tags...)
	}
	return r
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
