package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/pkg/vector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	results []vector.Match
	err     error
	delay   time.Duration
	calls   int
	gotTopK int
}

func (f *fakeSearcher) Query(ctx context.Context, text string, topK int) ([]vector.Match, error) {
	f.calls++
	f.gotTopK = topK
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.results, f.err
}

func match(id string, score float64, category string) vector.Match {
	return vector.Match{ID: id, Score: score, Title: "T" + id, Content: "content " + id, Category: category}
}

func TestSearchTiers(t *testing.T) {
	tests := []struct {
		name        string
		results     []vector.Match
		wantIDs     []string
		wantTier    Tier
		wantTop     float64
		wantAverage float64
		wantCats    []string
	}{
		{
			name:        "tier one keeps everything above threshold",
			results:     []vector.Match{match("a", 0.91, "projects"), match("b", 0.80, "skills"), match("c", 0.70, "projects")},
			wantIDs:     []string{"a", "b"},
			wantTier:    TierPrimary,
			wantTop:     0.91,
			wantAverage: 0.855,
			wantCats:    []string{"projects", "skills"},
		},
		{
			name:        "tier two takes top two above relaxed threshold",
			results:     []vector.Match{match("a", 0.70, "projects"), match("b", 0.66, "projects"), match("c", 0.68, "skills")},
			wantIDs:     []string{"a", "c"},
			wantTier:    TierFallback,
			wantTop:     0.70,
			wantAverage: 0.69,
			wantCats:    []string{"projects", "skills"},
		},
		{
			name:     "tier two only considers two results",
			results:  []vector.Match{match("a", 0.64, ""), match("b", 0.60, ""), match("c", 0.60, "")},
			wantTier: TierNone,
		},
		{
			name:     "tier three is empty",
			results:  []vector.Match{match("a", 0.5, "projects")},
			wantTier: TierNone,
		},
		{
			name:     "no results",
			results:  nil,
			wantTier: TierNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSearcher{results: tt.results}
			r := NewRetriever(s, logger.NewNop())

			got := r.Search(context.Background(), "q", DefaultOptions())

			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, len(tt.wantIDs), got.ChunksUsed)
			require.Len(t, got.Chunks, len(tt.wantIDs))
			for i, id := range tt.wantIDs {
				assert.Contains(t, got.Chunks[i], "[T"+id+"]")
			}
			assert.InDelta(t, tt.wantTop, got.TopScore, 1e-9)
			assert.InDelta(t, tt.wantAverage, got.AverageScore, 1e-9)
			assert.Equal(t, tt.wantCats, got.Categories)
		})
	}
}

func TestSearchDefaultsTopK(t *testing.T) {
	s := &fakeSearcher{}
	r := NewRetriever(s, logger.NewNop())

	r.Search(context.Background(), "q", Options{MinScore: 0.75})
	assert.Equal(t, 3, s.gotTopK)
}

func TestSearchFailureIsEmptyOutcome(t *testing.T) {
	s := &fakeSearcher{err: errors.New("upstream down")}
	r := NewRetriever(s, logger.NewNop())

	got := r.Search(context.Background(), "q", DefaultOptions())
	assert.Equal(t, Outcome{}, got)
}

func TestSearchTimeoutIsEmptyOutcome(t *testing.T) {
	s := &fakeSearcher{results: []vector.Match{match("a", 0.9, "")}, delay: time.Second}
	r := NewRetriever(s, logger.NewNop())

	opts := DefaultOptions()
	opts.Timeout = 10 * time.Millisecond
	got := r.Search(context.Background(), "q", opts)
	assert.Equal(t, 0, got.ChunksUsed)
}

func TestFormatChunk(t *testing.T) {
	assert.Equal(t,
		"[RAG Chatbot] (projects) [relevance: 87.5%]\nBuilt with Groq.",
		FormatChunk(vector.Match{Title: "RAG Chatbot", Category: "projects", Score: 0.875, Content: "Built with Groq."}))
	assert.Equal(t,
		"[Information] [relevance: 70.0%]\nx",
		FormatChunk(vector.Match{Score: 0.7, Content: "x"}))
}

func TestBlock(t *testing.T) {
	assert.Empty(t, Block(Outcome{}))

	got := Block(Outcome{Chunks: []string{"one", "two"}, ChunksUsed: 2, AverageScore: 0.8})
	assert.Contains(t, got, "=== RELEVANT CONTEXT (2 chunks, avg relevance: 80.0%) ===")
	assert.Contains(t, got, "one\n\n---\n\ntwo")
	assert.Contains(t, got, "=== END CONTEXT ===")
}
