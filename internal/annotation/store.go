package annotation

// Store is the ordered, uniquely keyed collection of finished annotations.
// Insertion order is the z-order: the oldest annotation draws first.
type Store struct {
	items    []*Annotation
	byID     map[string]*Annotation
	selected string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Annotation)}
}

// Add appends the annotation. An annotation with a duplicate id replaces the
// existing entry in place, keeping its z position.
func (s *Store) Add(a *Annotation) {
	if existing, ok := s.byID[a.ID]; ok {
		*existing = *a
		return
	}
	s.items = append(s.items, a)
	s.byID[a.ID] = a
}

// Remove deletes the annotation with the given id. It reports whether the id
// was present; removing an unknown id is a no-op. Removing the selected
// annotation clears the selection.
func (s *Store) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Clear empties the store and drops any selection.
func (s *Store) Clear() {
	s.items = nil
	s.byID = make(map[string]*Annotation)
	s.selected = ""
}

// Get returns the annotation with the given id.
func (s *Store) Get(id string) (*Annotation, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// List returns the annotations in z-order. The slice is a copy; the elements
// are the live annotations.
func (s *Store) List() []*Annotation {
	out := make([]*Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of annotations.
func (s *Store) Len() int { return len(s.items) }

// Select marks the annotation as selected, reporting whether the id exists.
// Selection is a weak reference, never ownership.
func (s *Store) Select(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	s.selected = id
	return true
}

// Selected returns the selected annotation id, if any.
func (s *Store) Selected() (string, bool) {
	if s.selected == "" {
		return "", false
	}
	return s.selected, true
}

// ClearSelection drops the selection.
func (s *Store) ClearSelection() { s.selected = "" }

// Patch updates style and text of an existing annotation. Geometry is not
// patchable; shapes are immutable once finished.
func (s *Store) Patch(id string, style *StylePatch, text *string) bool {
	a, ok := s.byID[id]
	if !ok {
		return false
	}
	if style != nil {
		a.Style = ResolveStyle(a.Style, style)
	}
	if text != nil {
		a.Text = *text
	}
	return true
}
