package stylist

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Post-processor stage names, reported to the rewrite hook.
const (
	StageSanitize  = "sanitize"
	StageDiversify = "diversify"
	StageCoach     = "coach"
	StageEmoji     = "emoji"
)

const (
	echoMaxRunes       = 120
	emojiShortReply    = 120
	emptyReplyFallback = "Want a quick suggestion tailored to your mood?"
)

var (
	fencedBlock       = regexp.MustCompile("(?s)```(?:json)?.*?```")
	trailingSelection = regexp.MustCompile(`(?s)\{.*"selected_item_ids".*\}\s*$`)
	leadingGreeting   = regexp.MustCompile(`(?i)^\s*(hey there|hello)[,!]?\s*`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	outfitVocabulary  = regexp.MustCompile(`(?i)outfit|style|wear|dress|look|wardrobe`)
	anyEmoji          = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]`)
)

var bannedPhrases = []string{
	"anything exciting happen",
	"anything exciting planned",
	"how's your day going so far",
	"anything interesting happening",
	"more of a chill kind of day",
}

// rule pairs a keyword pattern with the text it produces. Rules are evaluated
// in order and the first match wins.
type rule struct {
	match  *regexp.Regexp
	result string
}

func firstMatch(rules []rule, text string) (string, bool) {
	for _, r := range rules {
		if r.match.MatchString(text) {
			return r.result, true
		}
	}
	return "", false
}

var coachRules = []rule{
	{regexp.MustCompile(`\b(good|great|nice|fine|okay|ok|cool)\b`), "Glad to hear that 🙂 Anything small that made it nice, like good food, comfy vibes, or a win at work?"},
	{regexp.MustCompile(`\b(bad|sad|tired|down|rough|meh|low)\b`), "Sorry it's been rough. Want a low-effort comfy look to lift the mood, or just chat a bit?"},
	{regexp.MustCompile(`\b(nothing|none|no|nah|nahi|nai)\b`), "That's okay too 😄 Sometimes a quiet, nothing-special day is still good. Fancy a tiny mood boost, maybe a cozy tee + light layer?"},
}

var emojiRules = []rule{
	{regexp.MustCompile(`\b(bad|sad|tired|down|rough|meh|low|upset|angry)\b`), " 💛"},
	{regexp.MustCompile(`\b(good|great|nice|fine|okay|ok|cool|love|like|happy|yay)\b`), " 🙂"},
	{regexp.MustCompile(`outfit|wear|style|dress|date|look`), " 👗"},
}

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}

type randPicker struct{}

func (randPicker) IntN(n int) int { return rand.IntN(n) }

// PostProcessor applies sanitize, diversify, small-talk coaching and
// contextual emoji to a model reply, in that order.
type PostProcessor struct {
	picker    Picker
	onRewrite func(stage string)
}

// NewPostProcessor creates a post-processor. A nil picker chooses uniformly at
// random; onRewrite, if set, is called for every stage that changed the reply.
func NewPostProcessor(picker Picker, onRewrite func(stage string)) *PostProcessor {
	if picker == nil {
		picker = randPicker{}
	}
	return &PostProcessor{picker: picker, onRewrite: onRewrite}
}

// Process runs the full chain. lastAssistant is the previous assistant reply
// in the session, empty on a first turn.
func (p *PostProcessor) Process(reply, userMessage, lastAssistant string) string {
	out := p.stage(StageSanitize, reply, Sanitize(reply))
	out = p.stage(StageDiversify, out, p.Diversify(out, userMessage, lastAssistant))
	out = p.stage(StageCoach, out, CoachSmallTalk(userMessage, out))
	return p.stage(StageEmoji, out, AddContextualEmoji(userMessage, out))
}

func (p *PostProcessor) stage(name, before, after string) string {
	if before != after && p.onRewrite != nil {
		p.onRewrite(name)
	}
	return after
}

// Sanitize strips fenced code blocks and a trailing item-selection object
// that leaked into the reply text.
func Sanitize(reply string) string {
	out := fencedBlock.ReplaceAllString(reply, "")
	out = trailingSelection.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// Diversify replaces stock small talk and verbatim repeats of the previous
// assistant reply with an alternative opener, then drops a leading greeting.
func (p *PostProcessor) Diversify(reply, userMessage, lastAssistant string) string {
	out := strings.TrimSpace(reply)
	if isRepetitive(out, lastAssistant) {
		alts := alternatives(userMessage)
		out = alts[p.picker.IntN(len(alts))]
	}
	out = strings.TrimSpace(leadingGreeting.ReplaceAllString(out, ""))
	if out == "" {
		return emptyReplyFallback
	}
	return out
}

func isRepetitive(reply, lastAssistant string) bool {
	lower := strings.ToLower(reply)
	for _, phrase := range bannedPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	last := normalizeSpace(strings.ToLower(lastAssistant))
	return last != "" && strings.Contains(normalizeSpace(lower), last)
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func alternatives(userMessage string) []string {
	return []string{
		fmt.Sprintf("Got it. Based on what you said (%s), want a quick vibe check or outfit idea?", echo(userMessage)),
		"Noted. Should we keep it comfy or add a bit of polish today?",
		"Cool. Fancy a casual look or something a touch smarter?",
		"Would you like a quick mood-based suggestion or prefer just to chat?",
	}
}

func echo(message string) string {
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) <= echoMaxRunes {
		return message
	}
	return string([]rune(message)[:echoMaxRunes-3]) + "…"
}

// CoachSmallTalk answers very short mood messages with a follow-up question,
// unless the reply is already about clothes.
func CoachSmallTalk(userMessage, reply string) string {
	if outfitVocabulary.MatchString(reply) {
		return reply
	}
	u := strings.ToLower(strings.TrimSpace(userMessage))
	if len(strings.Fields(u)) > 3 {
		return reply
	}
	if followUp, ok := firstMatch(coachRules, u); ok {
		return followUp
	}
	return reply
}

// AddContextualEmoji appends one emoji matching the user's mood when the
// reply has none.
func AddContextualEmoji(userMessage, reply string) string {
	if anyEmoji.MatchString(reply) {
		return reply
	}
	if suffix, ok := firstMatch(emojiRules, strings.ToLower(userMessage)); ok {
		return reply + suffix
	}
	if utf8.RuneCountInString(reply) < emojiShortReply {
		return reply + " 👋"
	}
	return reply
}
