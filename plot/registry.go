package plot

import (
	"sort"
	"sync"
)

// registry tracks open figures by their library-assigned number.
// Numbers are 1-based, monotonically assigned, and never reused within a
// process even after a figure is closed.
type registry struct {
	mu      sync.Mutex
	next    int
	figures map[int]*Figure
}

var defaultRegistry = &registry{figures: make(map[int]*Figure)}

func (r *registry) add(f *Figure) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.figures[r.next] = f
	return r.next
}

func (r *registry) remove(num int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.figures, num)
}

func (r *registry) open() []*Figure {
	r.mu.Lock()
	defer r.mu.Unlock()
	nums := make([]int, 0, len(r.figures))
	for n := range r.figures {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	figs := make([]*Figure, 0, len(nums))
	for _, n := range nums {
		figs = append(figs, r.figures[n])
	}
	return figs
}

// Figures returns all currently open figures ordered by number.
func Figures() []*Figure {
	return defaultRegistry.open()
}

// Reset closes the registry and restarts numbering. Intended for tests.
func Reset() {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.next = 0
	defaultRegistry.figures = make(map[int]*Figure)
}
