// Package copyfile implements arbor's single-file copy task using plain
// stdlib io/os.
package copyfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arborbuild/arbor"
)

// Task copies Src to Dst, creating Dst's parent directory if needed.
type Task struct {
	arbor.BaseTask

	TaskName string
	Src      string
	Dst      string
	// Mode overrides the destination file's permissions; zero means
	// "copy Src's own mode".
	Mode os.FileMode
}

func (t *Task) Name() string { return t.TaskName }

func (t *Task) Validate() error {
	if t.Src == "" || t.Dst == "" {
		return fmt.Errorf("copyfile %s: Src and Dst are required", t.TaskName)
	}
	return nil
}

func (t *Task) Inputs() []string  { return []string{t.Src} }
func (t *Task) Outputs() []string { return []string{t.Dst} }

func (t *Task) ResolvedInputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Inputs(), cwd)
}

func (t *Task) ResolvedOutputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Outputs(), cwd)
}

func (t *Task) Execute(rc *arbor.RunContext) error {
	src := t.Src
	if !filepath.IsAbs(src) {
		src = filepath.Join(rc.Dir, src)
	}
	dst := t.Dst
	if !filepath.IsAbs(dst) {
		dst = filepath.Join(rc.Dir, dst)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copyfile %s: stat source: %w", t.TaskName, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("copyfile %s: create destination dir: %w", t.TaskName, err)
	}

	mode := t.Mode
	if mode == 0 {
		mode = info.Mode()
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copyfile %s: open source: %w", t.TaskName, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("copyfile %s: open destination: %w", t.TaskName, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copyfile %s: copy: %w", t.TaskName, err)
	}
	return out.Close()
}

// New constructs a copy task.
func New(name, src, dst string) *Task {
	return &Task{TaskName: name, Src: src, Dst: dst}
}
