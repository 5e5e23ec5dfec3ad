// Package plot is a small figure-oriented plotting facade.
//
// Scripts create figures with New, populate them with series, and hand them
// to Show and Close. Rendering goes through go-chart to PNG. Display and
// close are routed through a process-wide Backend so that a harness can
// observe every figure reaching either entry point; the default backend is
// headless (display is inert, close only releases the figure).
package plot

import "sync"

// Backend receives every display and close operation issued through the
// package-level functions. A nil figure passed to Close means "close all
// currently open figures".
type Backend interface {
	Display(f *Figure) error
	Close(f *Figure) error
}

var (
	backendMu sync.Mutex
	backend   Backend = headlessBackend{}
)

// SetBackend installs b as the process-wide backend and returns the
// previous one, so a wrapping backend can both delegate to it and restore
// it when done. A nil b reinstalls the default headless backend.
func SetBackend(b Backend) (prev Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()
	prev = backend
	if b == nil {
		b = headlessBackend{}
	}
	backend = b
	return prev
}

func currentBackend() Backend {
	backendMu.Lock()
	defer backendMu.Unlock()
	return backend
}

// Show displays a figure through the current backend.
// Under the default headless backend this is a no-op.
func Show(f *Figure) error {
	return currentBackend().Display(f)
}

// Close closes a specific figure through the current backend,
// releasing it from the registry.
func Close(f *Figure) error {
	return currentBackend().Close(f)
}

// CloseAll closes every currently open figure.
func CloseAll() error {
	return currentBackend().Close(nil)
}

// DefaultBackend returns the headless backend: display does nothing, close
// releases the figure from the registry.
func DefaultBackend() Backend { return headlessBackend{} }

// headlessBackend is the default: display does nothing, close releases.
type headlessBackend struct{}

func (headlessBackend) Display(*Figure) error { return nil }

func (headlessBackend) Close(f *Figure) error {
	if f == nil {
		for _, open := range Figures() {
			defaultRegistry.remove(open.Number())
		}
		return nil
	}
	defaultRegistry.remove(f.Number())
	return nil
}
