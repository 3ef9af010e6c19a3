// Package stylist holds the conversational core: the topic gate, prompt
// construction, response extraction and the reply post-processing chain.
// Everything here is pure; I/O lives in the service layer.
package stylist

import (
	"regexp"

	"github.com/stylie-ai/stylist-platform/internal/model"
)

// BoundaryTag marks canned responses produced by the topic gate.
const BoundaryTag = "boundary"

var academicTopic = regexp.MustCompile(`(?i)\b(code|program|python|java|c\+\+|javascript|algorithm|equation|integral|derivative|physics|chemistry|biology|calculus|math|solve|compute|formula|theorem)\b`)

// Gate returns the canned boundary response when message asks for academic or
// technical help. newChat selects the wording used on a first message.
func Gate(message string, newChat bool) (*model.Response, bool) {
	if !academicTopic.MatchString(message) {
		return nil, false
	}
	if newChat {
		return &model.Response{
			Reply:   "I'm here for style, mood and personal vibe conversations, not academic or technical help. Share what you feel like wearing or how your day's going!",
			Explain: "Keeping focus on fashion & lifestyle.",
			Tags:    []string{BoundaryTag},
		}, true
	}
	return &model.Response{
		Reply:   "I focus on style, lifestyle and confidence, not technical or academic topics. Tell me about your day, mood or any outfit question and I'll jump in.",
		Explain: "Scope limited to fashion & lifestyle.",
		Tags:    []string{BoundaryTag},
	}, true
}
