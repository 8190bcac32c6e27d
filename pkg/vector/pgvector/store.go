package pgvector

import (
	"context"
	"fmt"
	"time"

	"ai-twin-be/pkg/embedding"
	"ai-twin-be/pkg/vector"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTable = "knowledge_chunks"

// KnowledgeChunk is one embedded portfolio document.
type KnowledgeChunk struct {
	ID        string          `gorm:"type:text;primaryKey"`
	Title     string          `gorm:"type:text"`
	Category  string          `gorm:"type:text;index"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

// Store searches knowledge chunks by cosine similarity. Query text is
// embedded client-side.
type Store struct {
	db       *gorm.DB
	embedder embedding.EmbeddingProvider
	table    string
}

var _ vector.Store = &Store{}

func NewStore(db *gorm.DB, embedder embedding.EmbeddingProvider, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{db: db, embedder: embedder, table: table}
}

// Migrate enables the vector extension and creates the chunk table.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable vector extension: %w", err)
	}
	return db.Table(s.table).AutoMigrate(&KnowledgeChunk{})
}

func (s *Store) Query(ctx context.Context, text string, topK int) ([]vector.Match, error) {
	values, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVector := pgvector.NewVector(values)

	type result struct {
		ID         string
		Title      string
		Category   string
		Content    string
		Similarity float64
	}
	var results []result

	// Cosine distance in pgvector is 1 - cosine_similarity
	err = s.db.WithContext(ctx).
		Table(s.table).
		Select("id, title, category, content, 1 - (embedding <=> ?) AS similarity", queryVector).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{queryVector}}).
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	matches := make([]vector.Match, len(results))
	for i, r := range results {
		matches[i] = vector.Match{
			ID:       r.ID,
			Score:    r.Similarity,
			Title:    r.Title,
			Content:  r.Content,
			Category: r.Category,
		}
	}
	return matches, nil
}

func (s *Store) Upsert(ctx context.Context, docs []vector.Document) error {
	chunks := make([]*KnowledgeChunk, 0, len(docs))
	for _, d := range docs {
		values, err := s.embedder.Embed(ctx, d.Content)
		if err != nil {
			return fmt.Errorf("embed %s: %w", d.ID, err)
		}
		chunks = append(chunks, &KnowledgeChunk{
			ID:        d.ID,
			Title:     d.Title,
			Category:  d.Category,
			Content:   d.Content,
			Embedding: pgvector.NewVector(values),
		})
	}
	if len(chunks) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).
		Table(s.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "category", "content", "embedding", "updated_at"}),
		}).
		Create(&chunks).Error
}
