package feedback

import (
	"regexp"
	"strings"
	"time"

	"ai-twin-be/pkg/store"
)

const (
	TypeTone   = "tone"
	TypeLength = "length"
	TypeFormat = "format"
	TypeEmoji  = "emoji"
	TypeDetail = "detail"
)

// Signal is a style request detected in a visitor message.
type Signal struct {
	Type           string
	Instruction    string
	IsProfessional bool
	Trigger        string
}

type rule struct {
	re             *regexp.Regexp
	feedbackType   string
	instruction    string
	isProfessional bool
}

type rejectClass int

const (
	classAbuse rejectClass = iota
	classOverride
)

type rejectRule struct {
	re    *regexp.Regexp
	class rejectClass
}

const (
	instructionFormal  = "Use a formal, professional tone. Avoid slang and casual expressions."
	instructionWarmer  = "Use a warmer, more conversational tone while staying professional."
	instructionShort   = "Keep answers brief: two or three sentences at most."
	instructionDetail  = "Give more detail and concrete examples when answering."
	instructionBullets = "Format answers as short bullet points."
	instructionProse   = "Answer in plain prose paragraphs without lists."
	instructionNoEmoji = "Do not use emojis."
	instructionEmoji   = "A few relevant emojis are welcome."
)

const (
	rejectAbuse    = "I keep things respectful and professional. Feel free to ask about my experience, projects, or skills instead."
	rejectOverride = "I can't change how I operate, but I'm happy to answer questions about my professional background, projects, and skills."
)

func mustRule(pattern, feedbackType, instruction string, professional bool) rule {
	return rule{
		re:             regexp.MustCompile(`(?i)\b(?:` + pattern + `)\b`),
		feedbackType:   feedbackType,
		instruction:    instruction,
		isProfessional: professional,
	}
}

// Detector recognizes style feedback and abusive or instruction-override requests.
// Rules are evaluated in order and the first match wins.
type Detector struct {
	rules  []rule
	reject []rejectRule
}

func NewDetector() *Detector {
	return &Detector{
		rules: []rule{
			// tone
			mustRule(`be more formal|more professional|stop using slang|no (?:more )?slang|less slang|stop being (?:so )?casual|less casual|too casual|be (?:more )?serious`, TypeTone, instructionFormal, true),
			mustRule(`be (?:more )?friendly|friendlier|less formal|too formal|more relaxed|more casual`, TypeTone, instructionWarmer, true),

			// non-professional style requests are recognized but never applied
			mustRule(`(?:use|add) more slang|more slang|talk like a (?:gangster|thug|pirate)|be sarcastic|more sarcas(?:m|tic)|be edgy|roast (?:me|them|someone)|be savage`, TypeTone, "", false),

			// length and detail
			mustRule(`shorter|be brief|too long|more concise|keep it short|tl;?dr|fewer words`, TypeLength, instructionShort, true),
			mustRule(`more detail(?:s|ed)?|in detail|too short|go deeper|elaborate more|be more specific|longer answers?`, TypeDetail, instructionDetail, true),

			// format
			mustRule(`no (?:more )?bullet(?: points)?|stop using (?:lists|bullets|bullet points)|in paragraphs|without (?:lists|bullets)`, TypeFormat, instructionProse, true),
			mustRule(`use bullet(?: points)?|bullet points|as a list|in a list|use a list|use lists`, TypeFormat, instructionBullets, true),

			// emoji
			mustRule(`no (?:more )?emojis?|stop using emojis?|without emojis?|fewer emojis?|less emojis?`, TypeEmoji, instructionNoEmoji, true),
			mustRule(`use (?:some |more )?emojis?|add (?:some |more )?emojis?|more emojis?`, TypeEmoji, instructionEmoji, true),
		},
		reject: []rejectRule{
			{regexp.MustCompile(`(?i)\b(?:ignore (?:all |your |the )?(?:previous|prior|above|earlier) (?:instructions|prompts?|rules)|disregard (?:your|the|all) (?:rules|instructions)|forget (?:everything|your instructions|your rules)|jailbreak|developer mode|pretend (?:to be|you are)|roleplay as|you are now|system prompt|always say)\b`), classOverride},
			{regexp.MustCompile(`(?i)(?:^|\bfrom now on,? )act as\b`), classOverride},
			{regexp.MustCompile(`(?i)\b(?:be rude|be mean|insult (?:me|them|someone)|swear|curse (?:at|words)|cuss|use profanity|say something offensive|talk dirty|be offensive|trash talk)\b`), classAbuse},
		},
	}
}

// Detect returns the first feedback signal in query, or nil.
func (d *Detector) Detect(query string) *Signal {
	for _, r := range d.rules {
		if m := r.re.FindString(query); m != "" {
			return &Signal{
				Type:           r.feedbackType,
				Instruction:    r.instruction,
				IsProfessional: r.isProfessional,
				Trigger:        strings.ToLower(m),
			}
		}
	}
	return nil
}

// IsUnprofessional reports abuse or an attempt to override the assistant's instructions.
func (d *Detector) IsUnprofessional(query string) bool {
	for _, r := range d.reject {
		if r.re.MatchString(query) {
			return true
		}
	}
	return false
}

// RejectionMessage returns the canned reply for an unprofessional request.
func (d *Detector) RejectionMessage(query string) string {
	for _, r := range d.reject {
		if r.re.MatchString(query) && r.class == classOverride {
			return rejectOverride
		}
	}
	return rejectAbuse
}

// Apply folds a professional signal into prefs. Entries are keyed by type and
// the newest signal of a type replaces the older one in place. Non-professional
// or nil signals leave prefs unchanged. The returned value never shares
// storage with prefs.
func Apply(prefs store.FeedbackPreferences, sig *Signal, at time.Time) store.FeedbackPreferences {
	out := prefs.Clone()
	if sig == nil || !sig.IsProfessional || sig.Instruction == "" {
		return out
	}

	entry := store.FeedbackEntry{Type: sig.Type, Instruction: sig.Instruction, AppliedAt: at}
	for i, e := range out.Entries {
		if e.Type == sig.Type {
			out.Entries[i] = entry
			return out
		}
	}
	out.Entries = append(out.Entries, entry)
	return out
}

// BuildInstruction renders the active preferences as a single directive block.
func BuildInstruction(prefs store.FeedbackPreferences) string {
	if prefs.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("VISITOR PREFERENCES (apply to every reply, they override the style rules above):\n")
	for _, e := range prefs.Entries {
		sb.WriteString("- ")
		sb.WriteString(e.Instruction)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
