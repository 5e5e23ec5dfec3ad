package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"demo.go", "demo"},
		{"/workspace/dis_voronoi_example.go", "dis_voronoi_example"},
		{"script", "script"},
		{"a/b/c.tar.gz", "c.tar"},
		{"./demo.go", "demo"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Stem(tt.path); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	l, err := Resolve("/workspace/demo.go", "/workspace")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if l.Stem != "demo" {
		t.Errorf("Stem: got %q, want %q", l.Stem, "demo")
	}
	if l.Root != filepath.Join("/workspace", "demo") {
		t.Errorf("Root: got %q, want %q", l.Root, "/workspace/demo")
	}
	if l.Plots != filepath.Join("/workspace", "demo", "plots") {
		t.Errorf("Plots: got %q, want %q", l.Plots, "/workspace/demo/plots")
	}
}

func TestResolveDefaultsWorkspaceToScriptDir(t *testing.T) {
	l, err := Resolve("/some/dir/demo.go", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if l.Root != filepath.Join("/some/dir", "demo") {
		t.Errorf("Root: got %q, want %q", l.Root, "/some/dir/demo")
	}
}

func TestResolveMakesRelativePathsAbsolute(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	l, err := Resolve(filepath.Join("sub", "demo.go"), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// The driver chdirs into the script's directory before the run, so
	// every layout path has to be anchored before that happens.
	for _, path := range []string{l.Script, l.Root, l.Plots} {
		if !filepath.IsAbs(path) {
			t.Errorf("path %q is not absolute", path)
		}
	}
	if want := filepath.Join(wd, "sub", "demo"); l.Root != want {
		t.Errorf("Root: got %q, want %q", l.Root, want)
	}
	if want := filepath.Join(wd, "sub", "demo", "plots"); l.Plots != want {
		t.Errorf("Plots: got %q, want %q", l.Plots, want)
	}
}

func TestEnsureCreatesTree(t *testing.T) {
	ws := t.TempDir()
	l, err := Resolve(filepath.Join(ws, "demo.go"), ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if err := l.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	for _, dir := range []string{l.Root, l.Plots} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	// Idempotent.
	if err := l.Ensure(); err != nil {
		t.Fatalf("Ensure (second call): %v", err)
	}
}
