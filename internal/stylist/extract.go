package stylist

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/stylie-ai/stylist-platform/internal/model"
)

// ParseFailureExplain is the explain placed on the fallback response when the
// model output is not a JSON object. It never reaches a caller.
const ParseFailureExplain = "Unable to parse JSON"

var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

// Extraction is the outcome of parsing raw model output.
type Extraction struct {
	Response *model.Response
	// OK is false when the output was not a JSON object and Response is the fallback.
	OK bool
	// ReplyIsString reports whether the object carried a string reply.
	ReplyIsString bool
}

// Extract parses the first ```json fenced block of raw, or raw itself when no
// block is present. Tags are deduplicated and never nil.
func Extract(raw string) Extraction {
	candidate := raw
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	}
	candidate = strings.TrimSpace(candidate)

	if !gjson.Valid(candidate) {
		return fallback(raw)
	}
	doc := gjson.Parse(candidate)
	if !doc.IsObject() {
		return fallback(raw)
	}

	resp := &model.Response{Tags: []string{}}
	reply := doc.Get("reply")
	if reply.Type == gjson.String {
		resp.Reply = reply.Str
	}
	if explain := doc.Get("explain"); explain.Type == gjson.String {
		resp.Explain = explain.Str
	}
	if tags := doc.Get("tags"); tags.IsArray() {
		seen := make(map[string]bool)
		for _, t := range tags.Array() {
			if t.Type != gjson.String {
				continue
			}
			tag := strings.TrimSpace(t.Str)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			resp.Tags = append(resp.Tags, tag)
		}
	}
	if ip := doc.Get("image_prompt"); ip.Type == gjson.String {
		resp.ImagePrompt = strings.TrimSpace(ip.Str)
	}

	return Extraction{Response: resp, OK: true, ReplyIsString: reply.Type == gjson.String}
}

func fallback(raw string) Extraction {
	return Extraction{
		Response: &model.Response{
			Reply:   raw,
			Explain: ParseFailureExplain,
			Tags:    []string{},
		},
	}
}
