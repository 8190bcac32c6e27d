package faq

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var embeddedBank []byte

// Entry is one curated question and its trusted answer.
type Entry struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Keywords []string `yaml:"keywords"`
}

type bankFile struct {
	Entries []Entry `yaml:"entries"`
}

type compiledEntry struct {
	entry         Entry
	keywords      []*regexp.Regexp
	questionTerms []string
}

// Matcher scores a query against the curated bank. It is read-only after
// construction.
type Matcher struct {
	entries []compiledEntry
}

var stopwords = map[string]bool{
	"what": true, "are": true, "your": true, "you": true, "the": true, "have": true,
	"about": true, "tell": true, "where": true, "and": true, "for": true, "with": true,
	"how": true, "who": true, "why": true, "does": true, "did": true, "was": true,
}

// Load reads a bank from path, or the embedded bank when path is empty.
func Load(path string) (*Matcher, error) {
	if path == "" {
		return Parse(embeddedBank)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading faq bank: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Matcher, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing faq bank: %w", err)
	}
	if len(f.Entries) == 0 {
		return nil, errors.New("faq bank has no entries")
	}

	m := &Matcher{entries: make([]compiledEntry, 0, len(f.Entries))}
	for i, e := range f.Entries {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("faq entry %d: question and answer are required", i)
		}
		ce := compiledEntry{entry: e, questionTerms: significantTerms(e.Question)}
		for _, kw := range e.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			ce.keywords = append(ce.keywords, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		m.entries = append(m.entries, ce)
	}
	return m, nil
}

type scored struct {
	entry Entry
	score int
}

// FindRelevant returns at most maxResults entries ordered by score. Each keyword hit
// scores two points and each shared question term one point. Ties keep bank order.
func (m *Matcher) FindRelevant(query string, maxResults int) []Entry {
	if maxResults <= 0 {
		return nil
	}
	q := strings.ToLower(query)
	queryTerms := make(map[string]bool)
	for _, t := range significantTerms(q) {
		queryTerms[t] = true
	}

	var hits []scored
	for _, ce := range m.entries {
		score := 0
		for _, re := range ce.keywords {
			if re.MatchString(q) {
				score += 2
			}
		}
		for _, t := range ce.questionTerms {
			if queryTerms[t] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{entry: ce.entry, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	out := make([]Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// Block renders matched entries for the prompt, or "" when there are none.
func Block(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("FREQUENTLY ASKED (High Priority):\n")
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. Q: %s\nA: %s\n", i+1, e.Question, e.Answer))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func significantTerms(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, f := range fields {
		if len([]rune(f)) < 3 || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}
