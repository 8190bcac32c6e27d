package integration

import (
	"context"
	"hash/fnv"
	"log"
	"os"
	"testing"

	"ai-twin-be/pkg/database"
	"ai-twin-be/pkg/vector"
	"ai-twin-be/pkg/vector/pgvector"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashEmbedder maps text to a deterministic one-hot vector so identical text
// has similarity 1.
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	v := make([]float32, 1536)
	v[h.Sum32()%1536] = 1
	return v, nil
}

func TestPgvectorStoreRoundTrip(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("PGVECTOR_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: PGVECTOR_DSN not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)

	table := "knowledge_chunks_it_" + uuid.NewString()[:8]
	s := pgvector.NewStore(db, hashEmbedder{}, table)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { db.Exec("DROP TABLE IF EXISTS " + table) })

	docs := []vector.Document{
		{ID: "skills", Title: "Skills", Category: "skills", Content: "React and Next.js"},
		{ID: "edu", Title: "Education", Category: "education", Content: "Computer science student"},
	}
	require.NoError(t, s.Upsert(ctx, docs))

	// re-upserting the same ids replaces rows
	docs[0].Title = "Frontend Skills"
	require.NoError(t, s.Upsert(ctx, docs[:1]))

	matches, err := s.Query(ctx, "React and Next.js", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "skills", matches[0].ID)
	assert.Equal(t, "Frontend Skills", matches[0].Title)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}
