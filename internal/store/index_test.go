package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Documents(t *testing.T) {
	idx, err := OpenIndex(":memory:")
	require.NoError(t, err)
	defer idx.Close()

	t0 := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, idx.RecordSave("a", "A", "/w/a/index.md", t0))
	require.NoError(t, idx.RecordSave("b", "B", "/w/b/index.md", t0.Add(time.Minute)))
	require.NoError(t, idx.RecordSave("a", "A renamed", "/w/a/index.md", t0.Add(2*time.Minute)))
	require.NoError(t, idx.RecordUpload("a", "1.png", "cat.png", 10, t0))
	require.NoError(t, idx.RecordUpload("a", "2.png", "dog.png", 20, t0))

	docs, err := idx.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "a", docs[0].Slug)
	assert.Equal(t, "A renamed", docs[0].Title)
	assert.Equal(t, 2, docs[0].Saves)
	assert.Equal(t, 2, docs[0].Images)
	assert.True(t, docs[0].SavedAt.Equal(t0.Add(2*time.Minute)))

	assert.Equal(t, "b", docs[1].Slug)
	assert.Equal(t, 1, docs[1].Saves)
	assert.Equal(t, 0, docs[1].Images)
}

func TestIndex_Empty(t *testing.T) {
	idx, err := OpenIndex(":memory:")
	require.NoError(t, err)
	defer idx.Close()

	docs, err := idx.Documents()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_RecordsInIndex(t *testing.T) {
	dir := t.TempDir()
	idx, err := OpenIndex(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	defer idx.Close()

	s, err := New(dir, WithIndex(idx), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	assert.Same(t, idx, s.Index())

	_, err = s.SaveDocument("Indexed Doc", "body")
	require.NoError(t, err)
	_, err = s.UploadImage("Indexed Doc", "pic.webp", []byte("w"))
	require.NoError(t, err)

	docs, err := idx.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "indexed-doc", docs[0].Slug)
	assert.Equal(t, "Indexed Doc", docs[0].Title)
	assert.Equal(t, 1, docs[0].Images)
}
