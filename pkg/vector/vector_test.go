package vector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocumentsEmbedded(t *testing.T) {
	docs, err := LoadDocuments("")
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	assert.Equal(t, "portfolio-about-0", docs[0].ID)
	assert.Equal(t, "Introduction", docs[0].Title)
	for _, d := range docs {
		assert.NotEmpty(t, d.Content)
		assert.NotEmpty(t, d.Category)
	}
}

func TestLoadDocumentsFromFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("documents:\n  - id: x\n    content: \"  hello  \"\n"), 0o644))
	docs, err := LoadDocuments(good)
	require.NoError(t, err)
	assert.Equal(t, []Document{{ID: "x", Content: "hello"}}, docs)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("documents: []\n"), 0o644))
	_, err = LoadDocuments(empty)
	assert.Error(t, err)

	blank := filepath.Join(dir, "blank.yaml")
	require.NoError(t, os.WriteFile(blank, []byte("documents:\n  - title: t\n"), 0o644))
	_, err = LoadDocuments(blank)
	assert.Error(t, err)

	_, err = LoadDocuments(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
