package preprocess

import (
	"regexp"
	"strings"
)

const (
	ChangeNormalized = "normalized whitespace and punctuation"
	ChangePhrases    = "fixed common phrases"
	ChangeTypos      = "fixed common typos"
)

var (
	whitespaceRun     = regexp.MustCompile(`\s+`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([.,!?])`)
	missingSpaceAfter = regexp.MustCompile(`([.,!?])(\p{L})`)
)

// Result is the outcome of preprocessing one raw query.
type Result struct {
	Original  string
	Corrected string
	Changes   []string
}

type phraseRule struct {
	re *regexp.Regexp
	to string
}

// Preprocessor repairs whitespace and common typos before a query is validated
// or embedded. It holds no mutable state and is safe for concurrent use.
type Preprocessor struct {
	phrases []phraseRule
}

func NewPreprocessor() *Preprocessor {
	rules := make([]phraseRule, 0, len(phraseCorrections))
	for _, c := range phraseCorrections {
		rules = append(rules, phraseRule{
			re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(c.from) + `\b`),
			to: c.to,
		})
	}
	return &Preprocessor{phrases: rules}
}

func (p *Preprocessor) Preprocess(raw string) Result {
	res := Result{Original: raw, Corrected: raw, Changes: []string{}}
	if strings.TrimSpace(raw) == "" {
		return res
	}

	text := raw

	if normalized := normalize(text); normalized != text {
		res.Changes = append(res.Changes, ChangeNormalized)
		text = normalized
	}

	if phrased := p.fixPhrases(text); phrased != text {
		res.Changes = append(res.Changes, ChangePhrases)
		text = phrased
	}

	if fixed := fixWords(text); fixed != text {
		res.Changes = append(res.Changes, ChangeTypos)
		text = fixed
	}

	res.Corrected = text
	return res
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = missingSpaceAfter.ReplaceAllString(s, "$1 $2")
	return s
}

func (p *Preprocessor) fixPhrases(s string) string {
	for _, rule := range p.phrases {
		s = rule.re.ReplaceAllLiteralString(s, rule.to)
	}
	return s
}

func fixWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		bare := strings.TrimRight(word, ".,!?;:")
		punct := word[len(bare):]
		if bare == "" {
			continue
		}
		if fix, ok := shorthandCorrections[bare]; ok {
			words[i] = fix + punct
			continue
		}
		if fix, ok := wordCorrections[strings.ToLower(bare)]; ok {
			words[i] = fix + punct
		}
	}
	return strings.Join(words, " ")
}
