package vector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSearcher struct {
	calls int
	err   error
}

func (s *countingSearcher) Query(ctx context.Context, text string, topK int) ([]Match, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []Match{{ID: text, Score: 0.9}}, nil
}

func TestCachedSearcherNormalizesKey(t *testing.T) {
	next := &countingSearcher{}
	c := NewCachedSearcher(next, time.Minute)
	ctx := context.Background()

	first, err := c.Query(ctx, "What  are your Skills", 3)
	require.NoError(t, err)
	second, err := c.Query(ctx, "what are your skills", 3)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)

	_, err = c.Query(ctx, "what are your skills", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedSearcherReturnsCopies(t *testing.T) {
	c := NewCachedSearcher(&countingSearcher{}, time.Minute)
	ctx := context.Background()

	got, _ := c.Query(ctx, "q", 3)
	got[0].Score = 0

	again, _ := c.Query(ctx, "q", 3)
	assert.Equal(t, 0.9, again[0].Score)
}

func TestCachedSearcherSkipsErrors(t *testing.T) {
	next := &countingSearcher{err: errors.New("down")}
	c := NewCachedSearcher(next, time.Minute)

	_, err := c.Query(context.Background(), "q", 3)
	assert.Error(t, err)
	_, err = c.Query(context.Background(), "q", 3)
	assert.Error(t, err)
	assert.Equal(t, 2, next.calls)

	c.Flush()
}
