package stabilizer

// voteWindow is a bounded ring of the most recent raw labels. A label
// is confirmed once it occupies more than fraction of the configured
// window size, which means confirmation requires the window to be
// mostly full: a burst of two or three frames can never confirm.
type voteWindow struct {
	labels   []string
	size     int
	next     int
	filled   int
	fraction float64
}

func newVoteWindow(size int, fraction float64) *voteWindow {
	return &voteWindow{
		labels:   make([]string, size),
		size:     size,
		fraction: fraction,
	}
}

// add appends a raw label and reports whether it is confirmed.
func (w *voteWindow) add(label string) bool {
	w.labels[w.next] = label
	w.next = (w.next + 1) % w.size
	if w.filled < w.size {
		w.filled++
	}

	count := 0
	for i := 0; i < w.filled; i++ {
		if w.labels[i] == label {
			count++
		}
	}

	return float64(count) > w.fraction*float64(w.size)
}

func (w *voteWindow) reset() {
	for i := range w.labels {
		w.labels[i] = ""
	}
	w.next = 0
	w.filled = 0
}
