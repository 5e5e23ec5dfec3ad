package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewAssignsMonotonicNumbers(t *testing.T) {
	Reset()
	defer Reset()

	a := New("first")
	b := New("second")
	if a.Number() != 1 || b.Number() != 2 {
		t.Fatalf("numbers: got %d, %d, want 1, 2", a.Number(), b.Number())
	}

	// Numbers are not reused after close.
	if err := Close(a); err != nil {
		t.Fatalf("Close: %v", err)
	}
	c := New("third")
	if c.Number() != 3 {
		t.Errorf("number after close: got %d, want 3", c.Number())
	}
}

func TestFiguresOrderedByNumber(t *testing.T) {
	Reset()
	defer Reset()

	New("a")
	New("b")
	New("c")

	figs := Figures()
	if len(figs) != 3 {
		t.Fatalf("open figures: got %d, want 3", len(figs))
	}
	for i, f := range figs {
		if f.Number() != i+1 {
			t.Errorf("figures[%d]: got number %d, want %d", i, f.Number(), i+1)
		}
	}
}

func TestHeadlessCloseReleasesFigure(t *testing.T) {
	Reset()
	defer Reset()

	f := New("a")
	New("b")

	if err := Close(f); err != nil {
		t.Fatalf("Close: %v", err)
	}
	figs := Figures()
	if len(figs) != 1 {
		t.Fatalf("open figures after close: got %d, want 1", len(figs))
	}
	if figs[0].Number() != 2 {
		t.Errorf("remaining figure: got number %d, want 2", figs[0].Number())
	}
}

func TestCloseAllReleasesEverything(t *testing.T) {
	Reset()
	defer Reset()

	New("a")
	New("b")
	New("c")

	if err := CloseAll(); err != nil {
		t.Fatalf("CloseAll: %v", err)
	}
	if got := len(Figures()); got != 0 {
		t.Fatalf("open figures after CloseAll: got %d, want 0", got)
	}
}

func TestHeadlessShowIsInert(t *testing.T) {
	Reset()
	defer Reset()

	f := New("a")
	if err := Show(f); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got := len(Figures()); got != 1 {
		t.Fatalf("show must not release the figure: got %d open, want 1", got)
	}
}

type recordingBackend struct {
	displayed []*Figure
	closed    []*Figure
}

func (r *recordingBackend) Display(f *Figure) error {
	r.displayed = append(r.displayed, f)
	return nil
}

func (r *recordingBackend) Close(f *Figure) error {
	r.closed = append(r.closed, f)
	return nil
}

func TestSetBackendRoutesAndRestores(t *testing.T) {
	Reset()
	defer Reset()

	rec := &recordingBackend{}
	prev := SetBackend(rec)

	f := New("a")
	Show(f)
	Close(f)
	CloseAll()

	if len(rec.displayed) != 1 || rec.displayed[0] != f {
		t.Errorf("displayed: got %d calls, want 1 with the shown figure", len(rec.displayed))
	}
	if len(rec.closed) != 2 {
		t.Fatalf("closed: got %d calls, want 2", len(rec.closed))
	}
	if rec.closed[0] != f {
		t.Errorf("first close: got %v, want the specific figure", rec.closed[0])
	}
	if rec.closed[1] != nil {
		t.Errorf("second close: got %v, want nil (close-all)", rec.closed[1])
	}

	SetBackend(prev)
	// After restore the headless backend is back: close releases for real.
	if err := CloseAll(); err != nil {
		t.Fatalf("CloseAll after restore: %v", err)
	}
	if got := len(Figures()); got != 0 {
		t.Errorf("open figures after restore+CloseAll: got %d, want 0", got)
	}
}

func TestRenderWithoutSeriesFails(t *testing.T) {
	Reset()
	defer Reset()

	f := New("empty")
	var buf bytes.Buffer
	if err := f.Render(&buf); err == nil {
		t.Fatal("Render with no series: expected error, got nil")
	}
}

func TestSavePNGWritesFile(t *testing.T) {
	Reset()
	defer Reset()

	f := New("line")
	f.AddSeries("y=x", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})

	path := filepath.Join(t.TempDir(), "fig.png")
	if err := f.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("rendered PNG is empty")
	}
}

func TestSavePNGRemovesPartialFileOnRenderFailure(t *testing.T) {
	Reset()
	defer Reset()

	f := New("empty")
	path := filepath.Join(t.TempDir(), "fig.png")
	if err := f.SavePNG(path); err == nil {
		t.Fatal("SavePNG with no series: expected error, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("partial file left behind at %s", path)
	}
}
