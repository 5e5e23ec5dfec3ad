// Package layout derives the persistent output tree for a target script.
//
// A script <workspace>/demo.go gets <workspace>/demo as its output root and
// <workspace>/demo/plots for captured figures. The resolver only does path
// arithmetic and directory creation; whether the script itself exists is the
// execution driver's problem.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PlotsDirName is the fixed subdirectory of the output root that receives
// captured figures.
const PlotsDirName = "plots"

// Layout is the resolved output tree for one script run.
type Layout struct {
	// Script is the target script path as given.
	Script string `json:"script"`
	// Stem is the script base name with its extension stripped.
	Stem string `json:"stem"`
	// Root is the per-script output root. Never deleted by plotkeep.
	Root string `json:"root"`
	// Plots is the directory all captured figures land in.
	Plots string `json:"plots"`
}

// Resolve derives the output layout for scriptPath under workspace.
// An empty workspace means the script's own directory.
//
// Every path in the returned layout is absolute. The execution driver
// changes into the script's directory for the run, so a layout kept
// relative to the invocation directory would resolve against the wrong
// base the moment the script starts.
func Resolve(scriptPath, workspace string) (Layout, error) {
	script, err := filepath.Abs(scriptPath)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve script path %s: %w", scriptPath, err)
	}
	if workspace == "" {
		workspace = filepath.Dir(script)
	}
	workspace, err = filepath.Abs(workspace)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve workspace %s: %w", workspace, err)
	}
	stem := Stem(script)
	root := filepath.Join(workspace, stem)
	return Layout{
		Script: script,
		Stem:   stem,
		Root:   root,
		Plots:  filepath.Join(root, PlotsDirName),
	}, nil
}

// Stem returns the base name of path with its extension stripped.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ensure creates the output root and plots directory. Idempotent.
func (l Layout) Ensure() error {
	if err := os.MkdirAll(l.Plots, 0o755); err != nil {
		return fmt.Errorf("create plots dir %s: %w", l.Plots, err)
	}
	return nil
}
