// Package nav tracks the directory navigation history: an ordered list of
// visited paths with a movable position, like a browser's back/forward stack.
package nav

// maxEntries bounds the history; the oldest entry is evicted past this.
const maxEntries = 100

// History holds visited directories and the current position.
type History struct {
	paths []string
	index int
}

// New returns a history positioned at the starting directory.
func New(start string) *History {
	return &History{
		paths: []string{start},
		index: 0,
	}
}

// Current returns the directory at the current position.
func (h *History) Current() string {
	return h.paths[h.index]
}

// Visit records a new directory. Any forward history is discarded, and
// visiting the current directory again is a no-op.
func (h *History) Visit(dir string) {
	if h.paths[h.index] == dir {
		return
	}

	// Truncate forward history if we're not at the end
	if h.index < len(h.paths)-1 {
		h.paths = h.paths[:h.index+1]
	}

	h.paths = append(h.paths, dir)
	h.index = len(h.paths) - 1

	if len(h.paths) > maxEntries {
		h.paths = h.paths[1:]
		h.index--
	}
}

// Back moves one step backward and returns the directory there.
// It reports false when there is nothing to go back to.
func (h *History) Back() (string, bool) {
	if !h.CanBack() {
		return "", false
	}
	h.index--
	return h.paths[h.index], true
}

// Forward moves one step forward and returns the directory there.
// It reports false when there is nothing to go forward to.
func (h *History) Forward() (string, bool) {
	if !h.CanForward() {
		return "", false
	}
	h.index++
	return h.paths[h.index], true
}

// CanBack reports whether a backward step is possible.
func (h *History) CanBack() bool {
	return h.index > 0
}

// CanForward reports whether a forward step is possible.
func (h *History) CanForward() bool {
	return h.index < len(h.paths)-1
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.paths)
}
