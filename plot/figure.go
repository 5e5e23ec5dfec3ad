package plot

import (
	"fmt"
	"io"
	"os"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Default canvas size in pixels when a figure does not set its own.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

var (
	defaultSizeMu sync.Mutex
	defaultWidth  = DefaultWidth
	defaultHeight = DefaultHeight
)

// SetDefaultSize changes the canvas size new figures start with.
// Non-positive values are ignored.
func SetDefaultSize(width, height int) {
	defaultSizeMu.Lock()
	defer defaultSizeMu.Unlock()
	if width > 0 {
		defaultWidth = width
	}
	if height > 0 {
		defaultHeight = height
	}
}

func defaultSize() (int, int) {
	defaultSizeMu.Lock()
	defer defaultSizeMu.Unlock()
	return defaultWidth, defaultHeight
}

// Figure is a renderable chart. It is registered with the package registry
// at construction and carries the library-assigned number until closed.
type Figure struct {
	mu     sync.Mutex
	num    int
	title  string
	width  int
	height int
	series []chart.Series
}

// New creates a figure, registers it, and assigns the next figure number.
func New(title string) *Figure {
	w, h := defaultSize()
	f := &Figure{
		title:  title,
		width:  w,
		height: h,
	}
	f.num = defaultRegistry.add(f)
	return f
}

// Number returns the library-assigned figure number (1-based).
func (f *Figure) Number() int { return f.num }

// Title returns the figure title.
func (f *Figure) Title() string { return f.title }

// SetSize overrides the canvas size in pixels. Non-positive values are ignored.
func (f *Figure) SetSize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if width > 0 {
		f.width = width
	}
	if height > 0 {
		f.height = height
	}
}

// AddSeries appends a continuous XY series to the figure.
func (f *Figure) AddSeries(name string, xs, ys []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series = append(f.series, chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
	})
}

// Render draws the figure as a PNG to w. A figure with no series fails:
// go-chart refuses to render an empty chart, and that is the natural
// "bad state" a capture layer has to tolerate.
func (f *Figure) Render(w io.Writer) error {
	f.mu.Lock()
	graph := chart.Chart{
		Title:  f.title,
		Width:  f.width,
		Height: f.height,
		Series: append([]chart.Series(nil), f.series...),
	}
	f.mu.Unlock()
	return graph.Render(chart.PNG, w)
}

// SavePNG renders the figure to the given path.
func (f *Figure) SavePNG(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Render(out); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("render figure %d: %w", f.num, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
