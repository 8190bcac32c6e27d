package response

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateAtSentence(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		maxWords      int
		want          string
		wantTruncated bool
	}{
		{
			name:     "fits",
			text:     "I build web apps. Mostly with Next.js.",
			maxWords: 10,
			want:     "I build web apps. Mostly with Next.js.",
		},
		{
			name:          "drops trailing sentence",
			text:          "One two three. Four five six. Seven eight nine.",
			maxWords:      6,
			want:          "One two three. Four five six." + ElaborateNudge,
			wantTruncated: true,
		},
		{
			name:          "keeps oversized first sentence whole",
			text:          "This single sentence is longer than the limit allows. Second.",
			maxWords:      3,
			want:          "This single sentence is longer than the limit allows." + ElaborateNudge,
			wantTruncated: true,
		},
		{
			name:     "decimal points are not boundaries",
			text:     "I scored 3.5 on average.",
			maxWords: 5,
			want:     "I scored 3.5 on average.",
		},
		{
			name:     "empty",
			text:     "",
			maxWords: 5,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateAtSentence(tt.text, tt.maxWords)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestSentenceLimiterStreamsWholeSentences(t *testing.T) {
	var emitted []string
	l := NewSentenceLimiter(6, func(s string) error {
		emitted = append(emitted, s)
		return nil
	})

	tokens := []string{"One", " two", " thr", "ee.", " Four five", " six.", " Seven", " eight.", " Nine ten."}
	var stopErr error
	for _, tok := range tokens {
		if err := l.Write(tok); err != nil {
			stopErr = err
			break
		}
	}
	require.NoError(t, l.Close())

	assert.ErrorIs(t, stopErr, ErrLimitReached)
	assert.True(t, l.Truncated())
	assert.Equal(t, []string{"One two three.", " Four five six.", ElaborateNudge}, emitted)
	assert.Equal(t, "One two three. Four five six."+ElaborateNudge, l.Text())
}

func TestSentenceLimiterFlushesTailOnClose(t *testing.T) {
	var sb strings.Builder
	l := NewSentenceLimiter(100, func(s string) error {
		sb.WriteString(s)
		return nil
	})

	require.NoError(t, l.Write("Hello there. I am"))
	assert.Equal(t, "Hello there.", sb.String())

	require.NoError(t, l.Write(" a twin"))
	require.NoError(t, l.Close())
	assert.Equal(t, "Hello there. I am a twin", sb.String())
	assert.False(t, l.Truncated())
}

func TestSentenceLimiterPropagatesWriterError(t *testing.T) {
	gone := errors.New("client gone")
	l := NewSentenceLimiter(100, func(s string) error { return gone })

	err := l.Write("First sentence. ")
	assert.ErrorIs(t, err, gone)
}

func TestSentenceLimiterNewlineIsBoundary(t *testing.T) {
	var emitted []string
	l := NewSentenceLimiter(100, func(s string) error {
		emitted = append(emitted, s)
		return nil
	})

	require.NoError(t, l.Write("- React\n- Go"))
	require.NoError(t, l.Close())
	assert.Equal(t, []string{"- React\n", "- Go"}, emitted)
}

func TestLengthPolicyInstruction(t *testing.T) {
	got := DefaultLengthPolicy().Instruction()
	assert.Contains(t, got, "aim for 40-80 words")
	assert.Contains(t, got, "NEVER exceed 100 words")
}

func TestCheckMoodCompliance(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		mood          string
		wantCompliant bool
		wantScore     int
	}{
		{"professional clean", "I specialise in Next.js and TypeScript.", "professional", true, 100},
		{"professional slangy", "Yo, my stack is bussin.", "professional", false, 0},
		{"professional word containing slang", "You can reach me anytime.", "professional", true, 100},
		{"genz formal", "I specialise in Next.js and TypeScript.", "genz", false, 0},
		{"genz full", "ngl my stack is bussin 🔥", "genz", true, 70},
		{"genz lowkey spam", "lowkey lowkey lowkey good 🔥", "genz", false, 25},
		{"casual anything goes", "Sure thing!", "casual", true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckMoodCompliance(tt.text, tt.mood)
			assert.Equal(t, tt.wantCompliant, got.Compliant)
			assert.Equal(t, tt.wantScore, got.Score)
		})
	}
}
