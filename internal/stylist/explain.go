package stylist

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stylie-ai/stylist-platform/internal/model"
)

// ExplainMaxRunes caps every explain sent to a caller.
const ExplainMaxRunes = 140

const defaultExplain = "Suggests a balanced combination from your wardrobe."

var (
	newlineRun        = regexp.MustCompile(`\n+`)
	rationaleKeywords = regexp.MustCompile(`(?i)\b(pair|paired|combine|combined|balance|balanced|complete|completes|layer|layered|add|adds|professional|casual|edge|comfortable|polished)\b`)
)

// NeedsExplain reports whether resp.Explain is missing, the parse-failure
// marker, or just a copy of the reply.
func NeedsExplain(resp *model.Response) bool {
	e := strings.TrimSpace(resp.Explain)
	return e == "" || isParseFailure(e) || resp.Explain == resp.Reply
}

// Explain derives a one-sentence rationale from reply, preferring a sentence
// that talks about how pieces combine.
func Explain(reply string) string {
	flat := strings.TrimSpace(newlineRun.ReplaceAllString(reply, " "))
	if flat == "" {
		return defaultExplain
	}

	sentences := splitSentences(flat)
	chosen := flat
	if len(sentences) > 0 {
		chosen = sentences[0]
	}
	for _, s := range sentences {
		if rationaleKeywords.MatchString(s) {
			chosen = s
			break
		}
	}
	return truncateExplain(chosen)
}

// FinalizeExplain makes resp.Explain safe to return: synthesized when needed,
// never the parse-failure marker, and at most ExplainMaxRunes long.
func FinalizeExplain(resp *model.Response) {
	if NeedsExplain(resp) {
		resp.Explain = Explain(resp.Reply)
	}
	if isParseFailure(resp.Explain) {
		resp.Explain = defaultExplain
	}
	resp.Explain = truncateExplain(resp.Explain)
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
}

func isParseFailure(s string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(ParseFailureExplain))
}

// splitSentences cuts after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(".!?", runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func truncateExplain(s string) string {
	if utf8.RuneCountInString(s) <= ExplainMaxRunes {
		return s
	}
	cut := string([]rune(s)[:ExplainMaxRunes-3])
	cut = strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",:;.!?", r)
	})
	return cut + "…"
}
