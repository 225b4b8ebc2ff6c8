package walker

// History is the set of paths already processed during one walk.
// It guarantees every item is visited at most once, which also makes the
// walk terminate on symlink cycles.
type History struct {
	visited map[string]struct{}
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{visited: make(map[string]struct{})}
}

// TryVisit registers path. It returns false if path was already registered.
func (h *History) TryVisit(path string) bool {
	if _, ok := h.visited[path]; ok {
		return false
	}
	h.visited[path] = struct{}{}
	return true
}

// Contains reports whether path was registered
func (h *History) Contains(path string) bool {
	_, ok := h.visited[path]
	return ok
}

// Len returns the number of registered paths
func (h *History) Len() int {
	return len(h.visited)
}
