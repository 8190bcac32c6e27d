package vector

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var embeddedKnowledge []byte

// Match is one nearest-neighbour hit from the knowledge index.
// Score is a similarity in [0,1], higher is closer.
type Match struct {
	ID       string
	Score    float64
	Title    string
	Content  string
	Category string
}

// Searcher queries a vector index by natural-language text. Results are
// ordered by descending score.
type Searcher interface {
	Query(ctx context.Context, text string, topK int) ([]Match, error)
}

// Document is a knowledge chunk to be embedded and stored.
type Document struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Content  string `yaml:"content"`
}

// Indexer writes documents into a vector index, replacing existing ids.
type Indexer interface {
	Upsert(ctx context.Context, docs []Document) error
}

// Store is a backend that can both seed and search the index.
type Store interface {
	Searcher
	Indexer
}

type knowledgeFile struct {
	Documents []Document `yaml:"documents"`
}

// LoadDocuments reads a knowledge file, or the embedded portfolio knowledge
// when path is empty. Documents without an id get "<category>-<n>".
func LoadDocuments(path string) ([]Document, error) {
	data := embeddedKnowledge
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading knowledge file: %w", err)
		}
	}

	var f knowledgeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing knowledge file: %w", err)
	}
	if len(f.Documents) == 0 {
		return nil, errors.New("knowledge file has no documents")
	}

	for i := range f.Documents {
		d := &f.Documents[i]
		d.Content = strings.TrimSpace(d.Content)
		if d.Content == "" {
			return nil, fmt.Errorf("knowledge document %d: content is required", i)
		}
		if d.ID == "" {
			d.ID = fmt.Sprintf("portfolio-%s-%d", d.Category, i)
		}
	}
	return f.Documents, nil
}
