// Package pkg implements arbor's "package" task: stage a compiled binary
// plus any declared extra files into a directory that a tasks/archive
// task can then zip. Ordering between tasks is expressed as
// plain file-edge wiring (Input/Output paths), since arbor's DAG owns
// ordering rather than any explicit sequencing combinator.
package pkg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arborbuild/arbor"
)

// Task copies Binary into Dir under its base name, and every path in
// Extra into Dir, preserving a relative Extra path's directory structure.
// An absolute Extra path, or one that climbs out with "..", lands under
// its base name.
type Task struct {
	arbor.BaseTask

	TaskName string
	Binary   string
	Extra    []string
	Dir      string
}

func (t *Task) Name() string { return t.TaskName }

func (t *Task) Validate() error {
	if t.Binary == "" || t.Dir == "" {
		return fmt.Errorf("pkg %s: Binary and Dir are required", t.TaskName)
	}
	return nil
}

func (t *Task) Inputs() []string {
	return append([]string{t.Binary}, t.Extra...)
}

func (t *Task) Outputs() []string { return []string{t.Dir} }

func (t *Task) ResolvedInputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Inputs(), cwd)
}

func (t *Task) ResolvedOutputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Outputs(), cwd)
}

func (t *Task) Execute(rc *arbor.RunContext) error {
	dir := t.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(rc.Dir, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pkg %s: mkdir %s: %w", t.TaskName, dir, err)
	}

	if err := copyInto(rc.Dir, dir, t.Binary); err != nil {
		return fmt.Errorf("pkg %s: %w", t.TaskName, err)
	}
	for _, extra := range t.Extra {
		sub := dir
		rel := filepath.Clean(extra)
		if !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			sub = filepath.Join(dir, filepath.Dir(rel))
			if err := os.MkdirAll(sub, 0o755); err != nil {
				return fmt.Errorf("pkg %s: mkdir %s: %w", t.TaskName, sub, err)
			}
		}
		if err := copyInto(rc.Dir, sub, extra); err != nil {
			return fmt.Errorf("pkg %s: %w", t.TaskName, err)
		}
	}
	return nil
}

func copyInto(baseDir, dstDir, src string) error {
	abs := src
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(baseDir, abs)
	}
	dst := filepath.Join(dstDir, filepath.Base(abs))

	in, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("open %s: %w", abs, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// New constructs a pkg task staging binary and any extra files into dir.
func New(name, binary, dir string, extra ...string) *Task {
	return &Task{TaskName: name, Binary: binary, Dir: dir, Extra: extra}
}
