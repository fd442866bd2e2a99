package internal

// Set is a generic collection of unique items backed by a map for O(1)
// membership checks.
type Set[T comparable] struct {
	items map[T]struct{}
}

// NewSet creates an empty Set.
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{
		items: make(map[T]struct{}),
	}
}

// Add inserts an item into the set. Adding an existing item has no effect.
func (s *Set[T]) Add(item T) {
	s.items[item] = struct{}{}
}

// Contains checks if an item exists in the set.
func (s *Set[T]) Contains(item T) bool {
	_, exists := s.items[item]
	return exists
}

// Size returns the number of items in the set.
func (s *Set[T]) Size() int {
	return len(s.items)
}

// dedupe returns items with duplicates and empty values removed, preserving
// first-seen order.
func dedupe(items []string) []string {
	seen := NewSet[string]()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen.Contains(item) {
			continue
		}
		seen.Add(item)
		out = append(out, item)
	}
	return out
}
