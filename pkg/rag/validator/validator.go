package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	ReasonTooShort = "Query too short. Please ask a specific question about my experience, skills, or projects."
	ReasonBlocked  = "I'm designed to answer questions about my professional background, skills, projects, and career. Please ask about my technical experience, education, or work preferences."
	ReasonOffTopic = "I can answer questions about my professional background, technical skills, projects, education, and career. What would you like to know?"
)

// continuationMaxRunes is the length under which a turn with prior history is
// treated as a follow-up without validation.
const continuationMaxRunes = 15

var metaPattern = func() *regexp.Regexp {
	quoted := make([]string, len(metaPatterns))
	for i, p := range metaPatterns {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}()

var followUpPattern = regexp.MustCompile(`(?i)^(yes|yeah|sure|ok|okay|tell me more|elaborate|continue|go on|please|why|how|what about)[.!?]*$`)

// ValidationResult is the topic gate verdict for one query. It is never persisted.
type ValidationResult struct {
	IsValid    bool    `json:"is_valid"`
	Reason     string  `json:"reason,omitempty"`
	Category   string  `json:"category,omitempty"`
	Confidence float64 `json:"confidence"`
}

type compiledCategory struct {
	category string
	re       *regexp.Regexp
}

type Validator struct {
	blocked      []*regexp.Regexp
	professional []*regexp.Regexp
	questions    []*regexp.Regexp
	categories   []compiledCategory
	greetings    map[string]bool
}

func NewValidator() *Validator {
	v := &Validator{greetings: make(map[string]bool, len(greetings))}
	for _, k := range blockedKeywords {
		v.blocked = append(v.blocked, termPattern(k))
	}
	for _, k := range professionalKeywords {
		v.professional = append(v.professional, termPattern(k))
	}
	for _, k := range questionPatterns {
		v.questions = append(v.questions, termPattern(k))
	}
	for _, g := range categoryGroups {
		quoted := make([]string, len(g.prefixes))
		for i, p := range g.prefixes {
			quoted[i] = regexp.QuoteMeta(p)
		}
		v.categories = append(v.categories, compiledCategory{
			category: g.category,
			re:       regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`),
		})
	}
	for _, g := range greetings {
		v.greetings[g] = true
	}
	return v
}

// termPattern matches a keyword on word boundaries, tolerating a plural suffix,
// so "hack" does not hit "hackathon" while "skill" still hits "skills".
func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `(?:s|es)?\b`)
}

func (v *Validator) Validate(query string) ValidationResult {
	q := strings.ToLower(strings.TrimSpace(query))

	if utf8.RuneCountInString(q) < 3 {
		return ValidationResult{IsValid: false, Reason: ReasonTooShort, Confidence: 1.0}
	}

	if v.greetings[strings.TrimRight(q, ".,!?")] {
		return ValidationResult{IsValid: true, Category: CategoryGreeting, Confidence: 1.0}
	}

	if v.IsBlocked(q) {
		return ValidationResult{IsValid: false, Reason: ReasonBlocked, Confidence: 0.95}
	}

	hits := countMatches(v.professional, q)
	hasQuestion := countMatches(v.questions, q) > 0

	confidence := 0.5
	switch {
	case hits >= 3:
		confidence = 0.95
	case hits >= 2:
		confidence = 0.85
	case hits >= 1:
		confidence = 0.75
	case hasQuestion:
		confidence = 0.65
	}

	if confidence >= 0.65 || hits > 0 {
		return ValidationResult{IsValid: true, Category: v.Categorize(q), Confidence: confidence}
	}

	if hasQuestion && utf8.RuneCountInString(q) > 5 {
		return ValidationResult{IsValid: true, Category: CategoryGeneral, Confidence: 0.55}
	}

	return ValidationResult{IsValid: false, Reason: ReasonOffTopic, Confidence: 0.8}
}

// IsBlocked reports whether the query touches a privacy, illegal, off-topic or
// manipulation term.
func (v *Validator) IsBlocked(query string) bool {
	q := strings.ToLower(query)
	for _, re := range v.blocked {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}

// Categorize returns the topic category of the first matching keyword group.
func (v *Validator) Categorize(query string) string {
	q := strings.ToLower(query)
	for _, c := range v.categories {
		if c.re.MatchString(q) {
			return c.category
		}
	}
	return CategoryGeneral
}

// IsContinuation reports whether a turn should skip validation as a follow-up
// to the conversation so far.
func IsContinuation(query string, priorTurns int) bool {
	q := strings.TrimSpace(query)
	if priorTurns > 0 && utf8.RuneCountInString(q) < continuationMaxRunes {
		return true
	}
	return followUpPattern.MatchString(q)
}

// IsMetaQuery reports whether the visitor is asking about the assistant itself.
func IsMetaQuery(query string) bool {
	return metaPattern.MatchString(query)
}

// EnhanceQuery widens vague queries so vector search has more to match on.
func EnhanceQuery(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))

	switch {
	case strings.Contains(q, "tell me about yourself") || q == "about you" || q == "who are you":
		return query + " including technical skills, projects, education, and achievements"
	case strings.Contains(q, "what can you do") || strings.Contains(q, "capabilities"):
		return "technical skills, programming languages, frameworks, projects, and achievements"
	case strings.Contains(q, "experience") && !strings.Contains(q, "work"):
		return query + " work experience and projects"
	}
	return query
}

func countMatches(patterns []*regexp.Regexp, q string) int {
	n := 0
	for _, re := range patterns {
		if re.MatchString(q) {
			n++
		}
	}
	return n
}
