package persona

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed persona.yaml
var embeddedPersona []byte

// MoodConfig is one selectable conversation style.
type MoodConfig struct {
	ID               string  `yaml:"id" json:"id"`
	Name             string  `yaml:"name" json:"name"`
	Icon             string  `yaml:"icon" json:"icon"`
	Description      string  `yaml:"description" json:"description"`
	PromptAddition   string  `yaml:"prompt_addition" json:"-"`
	Temperature      float32 `yaml:"temperature" json:"temperature"`
	RateLimitMessage string  `yaml:"rate_limit_message" json:"-"`
}

// DeclineConfig phrases the soft-decline suggestion per topic category.
type DeclineConfig struct {
	Default     string            `yaml:"default"`
	Suggestions map[string]string `yaml:"suggestions"`
}

// Persona is the read-only identity document of the twin. It is loaded once
// at startup and shared by every request.
type Persona struct {
	Owner       string        `yaml:"owner"`
	DefaultMood string        `yaml:"default_mood"`
	Identity    string        `yaml:"identity"`
	Meta        string        `yaml:"meta"`
	Decline     DeclineConfig `yaml:"decline"`
	Moods       []MoodConfig  `yaml:"moods"`

	byID map[string]MoodConfig
}

// Load reads the persona document at path, or the embedded default when path is empty.
func Load(path string) (*Persona, error) {
	if path == "" {
		return Parse(embeddedPersona)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading persona file: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded persona. It panics if the embedded document is invalid,
// which can only happen with a broken build.
func Default() *Persona {
	p, err := Parse(embeddedPersona)
	if err != nil {
		panic(fmt.Sprintf("embedded persona is invalid: %v", err))
	}
	return p
}

func Parse(data []byte) (*Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing persona: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	p.byID = make(map[string]MoodConfig, len(p.Moods))
	for _, m := range p.Moods {
		p.byID[m.ID] = m
	}
	return &p, nil
}

func (p *Persona) validate() error {
	var errs []error

	if strings.TrimSpace(p.Identity) == "" {
		errs = append(errs, errors.New("identity is required"))
	}
	if len(p.Moods) == 0 {
		errs = append(errs, errors.New("at least one mood is required"))
	}
	if strings.TrimSpace(p.Decline.Default) == "" {
		errs = append(errs, errors.New("decline.default is required"))
	}

	seen := make(map[string]bool, len(p.Moods))
	for i, m := range p.Moods {
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("moods[%d]: id is required", i))
			continue
		}
		if seen[m.ID] {
			errs = append(errs, fmt.Errorf("moods[%d]: duplicate id %q", i, m.ID))
		}
		seen[m.ID] = true
		if strings.TrimSpace(m.PromptAddition) == "" {
			errs = append(errs, fmt.Errorf("mood %q: prompt_addition is required", m.ID))
		}
		if m.Temperature < 0 || m.Temperature > 2 {
			errs = append(errs, fmt.Errorf("mood %q: temperature %.2f out of range [0,2]", m.ID, m.Temperature))
		}
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("mood %q: name is required", m.ID))
		}
	}

	if p.DefaultMood == "" {
		errs = append(errs, errors.New("default_mood is required"))
	} else if !seen[p.DefaultMood] {
		errs = append(errs, fmt.Errorf("default_mood %q is not a declared mood", p.DefaultMood))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid persona: %w", errors.Join(errs...))
	}
	return nil
}

// Mood resolves a mood id. Unknown or empty ids resolve to the default mood.
func (p *Persona) Mood(id string) MoodConfig {
	if m, ok := p.byID[strings.ToLower(strings.TrimSpace(id))]; ok {
		return m
	}
	return p.byID[p.DefaultMood]
}

func (p *Persona) HasMood(id string) bool {
	_, ok := p.byID[id]
	return ok
}

// AllMoods returns the moods in declaration order.
func (p *Persona) AllMoods() []MoodConfig {
	out := make([]MoodConfig, len(p.Moods))
	copy(out, p.Moods)
	return out
}

// DeclineSuggestion returns the follow-up offer used when a question cannot be grounded.
func (p *Persona) DeclineSuggestion(category string) string {
	if s, ok := p.Decline.Suggestions[category]; ok && s != "" {
		return s
	}
	return p.Decline.Default
}
