package completion

import (
	"sort"
	"strings"
	"unicode"
)

// FuzzyMatch keeps the items whose text contains every rune of query in
// order, best matches first.
func FuzzyMatch(query string, items []Item) []Item {
	if query == "" {
		return items
	}

	q := []rune(strings.ToLower(query))
	var matches []Item
	for _, item := range items {
		if score := score(q, []rune(strings.ToLower(item.Text))); score > 0 {
			item.Score = score
			matches = append(matches, item)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func score(query, text []rune) int {
	if len(text) == 0 {
		return 0
	}
	if string(query) == string(text) {
		return 1000
	}
	if strings.HasPrefix(string(text), string(query)) {
		return 800 + max(0, 100-len(text)) // shorter names first
	}

	total := 0
	qi := 0
	last := -1
	streak := 0
	for ti, r := range text {
		if qi >= len(query) {
			break
		}
		if r != query[qi] {
			continue
		}
		total += 10
		if ti == last+1 {
			streak++
			total += streak * 5
		} else {
			streak = 0
		}
		// word boundaries: start, after a dash or space
		if ti == 0 || !unicode.IsLetter(text[ti-1]) {
			total += 15
		}
		last = ti
		qi++
	}
	if qi < len(query) {
		return 0
	}

	total -= len(text) - len(query)
	return max(total, 1)
}
