package stylist

import (
	"fmt"
	"strings"

	"github.com/stylie-ai/stylist-platform/internal/llm"
	"github.com/stylie-ai/stylist-platform/internal/model"
)

// MaxPriorTurns bounds how much conversation history is replayed to the model.
const MaxPriorTurns = 6

const unknownField = "not shared"

// SystemPrompt is the fixed persona instruction sent as the first turn.
const SystemPrompt = `You are StylieAI, an emotionally intelligent personal stylist and friendly companion.

Tone: uplifting, a little funny, confident and warm. Talk like a stylish friend, never like a manual.
Balance: roughly 60% fashion and styling, 40% mood lifting and small talk.
Language: mirror the user. If they write in Hinglish or Hindi, answer in the same mix; otherwise use simple English.
Emojis: use 2 or 3 per reply, never more.
Rationale: end every outfit suggestion with one short line starting with "Why:" that explains the pick.
Stay on style, lifestyle, mood and confidence. Politely decline academic or technical questions.

Output contract: respond ONLY with a JSON object inside a markdown code block, like

` + "```json" + `
{
  "reply": "what you say to the user",
  "explain": "one sentence on why this works",
  "tags": ["short", "labels"],
  "image_prompt": "optional prompt for an outfit image"
}
` + "```"

// BuildPrompt renders the role-tagged turns for one completion. Only the last
// MaxPriorTurns of prior are used; the profile template always lists every field.
func BuildPrompt(profile *model.Profile, message string, prior []model.Turn) []llm.ChatMessage {
	if len(prior) > MaxPriorTurns {
		prior = prior[len(prior)-MaxPriorTurns:]
	}

	msgs := make([]llm.ChatMessage, 0, 2+2*len(prior))
	msgs = append(msgs, llm.ChatMessage{Role: string(model.RoleSystem), Content: SystemPrompt})
	for _, t := range prior {
		if t.UserMessage != "" {
			msgs = append(msgs, llm.ChatMessage{Role: string(model.RoleUser), Content: t.UserMessage})
		}
		if t.AssistantReply != "" {
			msgs = append(msgs, llm.ChatMessage{Role: string(model.RoleAssistant), Content: t.AssistantReply})
		}
	}
	msgs = append(msgs, llm.ChatMessage{Role: string(model.RoleUser), Content: ProfileSummary(profile, message)})
	return msgs
}

// ProfileSummary serializes the profile and the user's message into the final user turn.
func ProfileSummary(p *model.Profile, message string) string {
	if p == nil {
		p = &model.Profile{}
	}
	return fmt.Sprintf(
		"Profile -> Height: %s; Body: %s; Skin: %s; Fav Colours: %s; Region: %s; Language: %s.\nUser says: %s",
		orUnknown(p.HeightRange),
		orUnknown(p.BodyType),
		orUnknown(p.SkinTone),
		orUnknown(strings.Join(p.FavouriteColours, ", ")),
		orUnknown(p.Region),
		orUnknown(p.LanguagePref),
		message,
	)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknownField
	}
	return s
}
