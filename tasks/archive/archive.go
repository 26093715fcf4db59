// Package archive implements arbor's "zip" packaging task: directory-to-zip
// packaging over stdlib archive/zip's container format, with
// github.com/klauspost/compress/flate registered as the DEFLATE
// implementation in place of compress/flate.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arborbuild/arbor"
	kflate "github.com/klauspost/compress/flate"
)

func init() {
	zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return kflate.NewWriter(w, kflate.DefaultCompression)
	})
}

// Task zips every file under Src into Dst as a single archive member per
// file, paths relative to Src.
type Task struct {
	arbor.BaseTask

	TaskName string
	Src      string
	Dst      string
}

func (t *Task) Name() string { return t.TaskName }

func (t *Task) Validate() error {
	if t.Src == "" || t.Dst == "" {
		return fmt.Errorf("archive %s: Src and Dst are required", t.TaskName)
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

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("archive %s: mkdir: %w", t.TaskName, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("archive %s: create %s: %w", t.TaskName, dst, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("archive %s: %w", t.TaskName, err)
	}
	return zw.Close()
}

// New constructs an archive task that zips src into dst.
func New(name, src, dst string) *Task {
	return &Task{TaskName: name, Src: src, Dst: dst}
}
