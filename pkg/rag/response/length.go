package response

import (
	"fmt"
	"strings"
)

// ElaborateNudge is appended whenever a reply is cut short.
const ElaborateNudge = "\n\n💡 *Ask me to elaborate on any specific aspect.*"

// LengthPolicy bounds the size of a reply in words.
type LengthPolicy struct {
	TargetMin    int
	TargetMax    int
	HardMaxWords int
}

func DefaultLengthPolicy() LengthPolicy {
	return LengthPolicy{TargetMin: 40, TargetMax: 80, HardMaxWords: 100}
}

// Instruction renders the policy as prompt text.
func (p LengthPolicy) Instruction() string {
	var sb strings.Builder
	sb.WriteString("RESPONSE LENGTH GUIDELINES:\n")
	sb.WriteString(fmt.Sprintf("- Keep responses CONCISE and FOCUSED (aim for %d-%d words)\n", p.TargetMin, p.TargetMax))
	sb.WriteString("- For simple questions: 2-3 sentences maximum\n")
	sb.WriteString("- For complex questions: 4-6 sentences, use bullet points if listing multiple items\n")
	sb.WriteString("- If the topic needs more depth, give a summary and invite the visitor to ask for specifics\n")
	sb.WriteString(fmt.Sprintf("- NEVER exceed %d words. Always finish the sentence you are writing\n", p.HardMaxWords))
	sb.WriteString("- Use numbers, metrics, and specific examples to stay informative while brief")
	return sb.String()
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateAtSentence shortens text to whole sentences totalling at most maxWords
// and appends ElaborateNudge when anything was dropped. The first sentence is
// always kept, even when it alone exceeds maxWords.
func TruncateAtSentence(text string, maxWords int) (string, bool) {
	var sb strings.Builder
	l := NewSentenceLimiter(maxWords, func(s string) error {
		sb.WriteString(s)
		return nil
	})
	_ = l.Write(text)
	_ = l.Close()
	return sb.String(), l.Truncated()
}
