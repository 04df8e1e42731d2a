package completion

// Item is one suggestion for the document name field
type Item struct {
	Text        string
	Description string
	Score       int
}

// State tracks the suggestion list shown under the name field
type State struct {
	Active   bool
	Query    string
	Items    []Item
	Selected int
}

func (s *State) Reset() {
	s.Active = false
	s.Query = ""
	s.Items = nil
	s.Selected = 0
}

// Show replaces the suggestions for query. An empty list hides them.
func (s *State) Show(query string, items []Item) {
	if len(items) == 0 {
		s.Reset()
		return
	}
	if query != s.Query || s.Selected >= len(items) {
		s.Selected = 0
	}
	s.Active = true
	s.Query = query
	s.Items = items
}

func (s *State) SelectNext() {
	if len(s.Items) > 0 {
		s.Selected = (s.Selected + 1) % len(s.Items)
	}
}

func (s *State) SelectPrev() {
	if len(s.Items) > 0 {
		s.Selected = (s.Selected - 1 + len(s.Items)) % len(s.Items)
	}
}

// SelectedItem returns the highlighted suggestion, or nil
func (s *State) SelectedItem() *Item {
	if s.Active && s.Selected >= 0 && s.Selected < len(s.Items) {
		return &s.Items[s.Selected]
	}
	return nil
}
