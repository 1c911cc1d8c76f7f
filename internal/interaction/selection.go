package interaction

import "sync"

// Selection is an ordered set of ids chosen for a bulk action.
type Selection[K comparable] struct {
	mu    sync.Mutex
	order []K
	set   map[K]struct{}
}

// Toggle adds or removes id and reports whether it is now selected.
func (s *Selection[K]) Toggle(id K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set == nil {
		s.set = make(map[K]struct{})
	}
	if _, ok := s.set[id]; ok {
		delete(s.set, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// SelectAll selects every id in all, or clears the selection when it
// already holds as many ids as all.
func (s *Selection[K]) SelectAll(all []K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == len(all) {
		s.order, s.set = nil, nil
		return
	}
	s.order = make([]K, 0, len(all))
	s.set = make(map[K]struct{}, len(all))
	for _, id := range all {
		if _, dup := s.set[id]; dup {
			continue
		}
		s.set[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// Clear empties the selection.
func (s *Selection[K]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order, s.set = nil, nil
}

// Contains reports whether id is selected.
func (s *Selection[K]) Contains(id K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Items returns the selected ids in selection order.
func (s *Selection[K]) Items() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]K(nil), s.order...)
}
