package response

import (
	"fmt"
	"regexp"
	"strings"
)

// Compliance is a heuristic check of whether a reply matches the selected mood.
// It is logged and recorded with analytics, never shown to the visitor.
type Compliance struct {
	Compliant  bool   `json:"compliant"`
	Reason     string `json:"reason,omitempty"`
	Score      int    `json:"score"`
	SlangCount int    `json:"slang_count"`
	EmojiCount int    `json:"emoji_count"`
}

var (
	genzSlang = wordSet(
		"no cap", "fr", "ngl", "ong", "bet", "facts", "tbh", "icl", "imo", "istg", "iykyk",
		"lmao", "lol", "bruh", "ain't that deep", "deadass",
		"fire", "bussin", "goated", "hits different", "slay", "mid", "it's giving", "based", "unhinged",
		"finna", "valid", "rent free", "main character", "lowkey", "highkey",
	)
	professionalSlang = wordSet("yo", "ngl", "fr fr", "bussin", "deadass", "bruh", "no cap", "lmao")
	casualStarters    = []string{"yo", "aight", "so like", "okay so", "real talk", "ngl", "bruh"}
	lowkeyPattern     = regexp.MustCompile(`\blowkey\b`)
	emojiPattern      = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{1F900}-\x{1F9FF}\x{1F1E0}-\x{1F1FF}]`)
)

func wordSet(terms ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return out
}

// CheckMoodCompliance scores text against the style rules of moodID.
func CheckMoodCompliance(text, moodID string) Compliance {
	lower := strings.ToLower(text)

	switch moodID {
	case "genz":
		return checkGenZ(text, lower)
	case "professional":
		for _, re := range professionalSlang {
			if re.MatchString(lower) {
				return Compliance{Compliant: false, Reason: "response too casual for professional mode", Score: 0}
			}
		}
		return Compliance{Compliant: true, Score: 100}
	default:
		return Compliance{Compliant: true, Score: 100}
	}
}

func checkGenZ(text, lower string) Compliance {
	c := Compliance{Compliant: true}
	for _, re := range genzSlang {
		if re.MatchString(lower) {
			c.SlangCount++
		}
	}
	c.EmojiCount = len(emojiPattern.FindAllString(text, -1))

	casualStart := false
	trimmed := strings.TrimSpace(lower)
	for _, s := range casualStarters {
		if strings.HasPrefix(trimmed, s) {
			casualStart = true
			break
		}
	}

	c.Score = min(40, c.SlangCount*15) + min(30, c.EmojiCount*10)
	if casualStart {
		c.Score += 30
	}
	c.Score = min(100, c.Score)

	switch lowkeys := len(lowkeyPattern.FindAllString(lower, -1)); {
	case lowkeys > 2:
		c.Compliant = false
		c.Reason = fmt.Sprintf("overusing \"lowkey\" (%d times)", lowkeys)
	case c.SlangCount == 0 && c.EmojiCount == 0:
		c.Compliant = false
		c.Reason = "missing slang and emojis, response too formal"
	case c.SlangCount == 0:
		c.Reason = "has emojis but no slang"
	case c.EmojiCount == 0:
		c.Reason = "has slang but no emojis"
	}
	return c
}
