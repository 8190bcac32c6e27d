package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/pkg/vector"
)

const (
	// fallbackMinScore is the relaxed threshold for the second tier.
	fallbackMinScore = 0.65
	// fallbackTake is how many raw results the second tier considers.
	fallbackTake = 2
)

// Tier reports which filtering tier produced an Outcome.
type Tier int

const (
	TierNone Tier = iota
	TierPrimary
	TierFallback
)

// Outcome is what vector search contributed to one turn. It is never persisted.
type Outcome struct {
	Chunks       []string
	TopScore     float64
	AverageScore float64
	ChunksUsed   int
	Categories   []string
	Tier         Tier
}

// Options encapsulates search parameters
type Options struct {
	TopK     int
	MinScore float64
	Timeout  time.Duration
}

// DefaultOptions returns default retrieval configuration
func DefaultOptions() Options {
	return Options{
		TopK:     3,
		MinScore: 0.75,
		Timeout:  900 * time.Millisecond,
	}
}

// Retriever runs vector search with tiered relevance fallback.
type Retriever struct {
	searcher vector.Searcher
	logger   logger.ILogger
}

func NewRetriever(searcher vector.Searcher, logger logger.ILogger) *Retriever {
	return &Retriever{
		searcher: searcher,
		logger:   logger,
	}
}

// Search never returns an error: service failures and timeouts are logged and
// reported as an empty outcome.
func (r *Retriever) Search(ctx context.Context, query string, opts Options) Outcome {
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	results, err := r.searcher.Query(ctx, query, opts.TopK)
	if err != nil {
		r.logger.Warn("RETRIEVAL", "Vector search failed, continuing without context", map[string]interface{}{
			"error": err.Error(),
			"query": query,
		})
		return Outcome{}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	// Tier 1
	var kept []vector.Match
	for _, m := range results {
		if m.Score >= opts.MinScore {
			kept = append(kept, m)
		}
	}
	tier := TierPrimary

	// Tier 2
	if len(kept) == 0 {
		tier = TierFallback
		for i, m := range results {
			if i >= fallbackTake {
				break
			}
			if m.Score >= fallbackMinScore {
				kept = append(kept, m)
			}
		}
	}

	for i, m := range results {
		status := "FILTERED"
		if containsID(kept, m.ID) {
			status = "KEEP"
		}
		r.logger.Debug("RETRIEVAL", fmt.Sprintf("Candidate %d: Score=%.4f [%s]", i+1, m.Score, status), map[string]interface{}{
			"id":    m.ID,
			"title": m.Title,
		})
	}

	// Tier 3
	if len(kept) == 0 {
		return Outcome{}
	}

	return buildOutcome(kept, tier)
}

func buildOutcome(kept []vector.Match, tier Tier) Outcome {
	out := Outcome{Tier: tier, ChunksUsed: len(kept)}
	seen := make(map[string]bool)
	var sum float64
	for _, m := range kept {
		out.Chunks = append(out.Chunks, FormatChunk(m))
		sum += m.Score
		if m.Score > out.TopScore {
			out.TopScore = m.Score
		}
		if m.Category != "" && !seen[m.Category] {
			seen[m.Category] = true
			out.Categories = append(out.Categories, m.Category)
		}
	}
	out.AverageScore = sum / float64(len(kept))
	return out
}

// FormatChunk renders a match as a labelled block for prompt insertion.
func FormatChunk(m vector.Match) string {
	title := m.Title
	if title == "" {
		title = "Information"
	}
	var sb strings.Builder
	sb.WriteString("[" + title + "]")
	if m.Category != "" {
		sb.WriteString(" (" + m.Category + ")")
	}
	sb.WriteString(fmt.Sprintf(" [relevance: %.1f%%]", m.Score*100))
	sb.WriteString("\n")
	sb.WriteString(m.Content)
	return sb.String()
}

// Block renders the outcome for the prompt, or "" when nothing was kept.
func Block(o Outcome) string {
	if o.ChunksUsed == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== RELEVANT CONTEXT (%d chunks, avg relevance: %.1f%%) ===\n", o.ChunksUsed, o.AverageScore*100))
	sb.WriteString(strings.Join(o.Chunks, "\n\n---\n\n"))
	sb.WriteString("\n=== END CONTEXT ===\n\n")
	sb.WriteString("USE THIS CONTEXT to provide accurate, specific answers. Reference details from the context when relevant.")
	return sb.String()
}

func containsID(ms []vector.Match, id string) bool {
	for _, m := range ms {
		if m.ID == id {
			return true
		}
	}
	return false
}
