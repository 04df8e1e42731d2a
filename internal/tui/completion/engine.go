package completion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nbedit/internal/logger"
	"nbedit/internal/store"
)

const maxItems = 50

// Engine suggests names of documents already in the write folder
type Engine struct {
	store *store.Store
}

func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Complete returns saved document names matching query. A query equal to
// a saved name yields nothing, there is nothing left to complete.
func (e *Engine) Complete(query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	items := FuzzyMatch(query, e.documents())
	out := items[:0]
	for _, item := range items {
		if !strings.EqualFold(item.Text, query) {
			out = append(out, item)
		}
	}
	return out
}

// documents lists titles from the index, or the folder names when there is
// no index to ask.
func (e *Engine) documents() []Item {
	if idx := e.store.Index(); idx != nil {
		entries, err := idx.Documents()
		if err == nil {
			items := make([]Item, 0, min(len(entries), maxItems))
			for _, d := range entries[:min(len(entries), maxItems)] {
				items = append(items, Item{
					Text:        d.Title,
					Description: describe(d),
				})
			}
			return items
		}
		logger.Error("Failed to list documents for completion: %v", err)
	}
	return scanFolders(e.store.Root())
}

func describe(d store.DocumentEntry) string {
	desc := "saved " + d.SavedAt.Format("Jan 2 15:04")
	if d.Images > 0 {
		desc += fmt.Sprintf(", %d image(s)", d.Images)
	}
	return desc
}

func scanFolders(root string) []Item {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var items []Item
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), store.DocumentFile)); err != nil {
			continue
		}
		items = append(items, Item{Text: entry.Name()})
		if len(items) >= maxItems {
			break
		}
	}
	return items
}
