package response

import (
	"errors"
	"strings"
	"unicode"
)

// ErrLimitReached is returned by SentenceLimiter.Write once the word budget is
// spent. Callers treat it as a normal end of generation.
var ErrLimitReached = errors.New("response word limit reached")

// SentenceLimiter forwards a token stream sentence by sentence and stops at the
// last whole sentence that fits the word budget. A sentence ends at '.', '!' or
// '?' followed by whitespace, or at a newline.
type SentenceLimiter struct {
	maxWords  int
	emit      func(string) error
	pending   strings.Builder
	words     int
	sent      strings.Builder
	truncated bool
	closed    bool
}

func NewSentenceLimiter(maxWords int, emit func(string) error) *SentenceLimiter {
	return &SentenceLimiter{maxWords: maxWords, emit: emit}
}

func (l *SentenceLimiter) Write(token string) error {
	if l.truncated || l.closed {
		return ErrLimitReached
	}
	l.pending.WriteString(token)

	for {
		buf := l.pending.String()
		end := sentenceEnd(buf)
		if end < 0 {
			return nil
		}
		sentence := buf[:end]
		rest := buf[end:]
		l.pending.Reset()
		l.pending.WriteString(rest)

		if err := l.offer(sentence); err != nil {
			return err
		}
	}
}

// Close flushes the trailing partial sentence.
func (l *SentenceLimiter) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	if l.truncated {
		return nil
	}
	rest := l.pending.String()
	l.pending.Reset()
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	err := l.offer(rest)
	if errors.Is(err, ErrLimitReached) {
		return nil
	}
	return err
}

// Truncated reports whether any text was withheld.
func (l *SentenceLimiter) Truncated() bool {
	return l.truncated
}

// Text returns everything forwarded so far, nudge included.
func (l *SentenceLimiter) Text() string {
	return l.sent.String()
}

func (l *SentenceLimiter) offer(sentence string) error {
	w := CountWords(sentence)
	if l.maxWords > 0 && l.words > 0 && l.words+w > l.maxWords {
		l.truncated = true
		if err := l.forward(ElaborateNudge); err != nil {
			return err
		}
		return ErrLimitReached
	}
	l.words += w
	return l.forward(sentence)
}

func (l *SentenceLimiter) forward(s string) error {
	if err := l.emit(s); err != nil {
		return err
	}
	l.sent.WriteString(s)
	return nil
}

// sentenceEnd returns the byte offset just past the first complete sentence in
// s, or -1. Whitespace after the terminator stays with the next sentence.
func sentenceEnd(s string) int {
	runes := []rune(s)
	offset := 0
	for i, r := range runes {
		size := len(string(r))
		if r == '\n' {
			return offset + size
		}
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return offset + size
		}
		offset += size
	}
	return -1
}
