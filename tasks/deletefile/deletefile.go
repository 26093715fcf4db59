// Package deletefile implements arbor's file/directory removal task.
package deletefile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arborbuild/arbor"
)

// Task removes Path (file or directory tree) if it exists. Declared as
// having Path as its sole output so the scheduler orders it after
// whatever task populates a directory it's meant to clear beforehand.
// Most uses instead put Path on Inputs to run it *before* a producer,
// which is the intended ordering for a "clean" style target.
type Task struct {
	arbor.BaseTask

	TaskName string
	Path     string
	// Before, when set, declares Path as an input instead of an output:
	// the task runs before whichever task produces Path, clearing it
	// pre-build rather than post-build.
	Before bool
}

func (t *Task) Name() string { return t.TaskName }

func (t *Task) Validate() error {
	if t.Path == "" {
		return fmt.Errorf("deletefile %s: Path is required", t.TaskName)
	}
	return nil
}

func (t *Task) Inputs() []string {
	if t.Before {
		return []string{t.Path}
	}
	return nil
}

func (t *Task) Outputs() []string {
	if t.Before {
		return nil
	}
	return []string{t.Path}
}

func (t *Task) ResolvedInputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Inputs(), cwd)
}

func (t *Task) ResolvedOutputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Outputs(), cwd)
}

func (t *Task) Execute(rc *arbor.RunContext) error {
	path := t.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(rc.Dir, path)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("deletefile %s: %w", t.TaskName, err)
	}
	return nil
}

// New constructs a delete task that runs after whatever produces path.
func New(name, path string) *Task {
	return &Task{TaskName: name, Path: path}
}

// NewBefore constructs a delete task that runs before whatever produces
// path (a "clean" target).
func NewBefore(name, path string) *Task {
	return &Task{TaskName: name, Path: path, Before: true}
}
