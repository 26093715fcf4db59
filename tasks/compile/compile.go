// Package compile implements arbor's "compile" task: it invokes the Go
// toolchain as a child process (os/exec, the same exec.CommandContext
// wrapping tasks/run uses) rather than reimplementing a Go compiler
// frontend.
package compile

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/arborbuild/arbor"
)

// Task runs `go build` for a single main package, producing a single
// output binary. Declaring Sources as this task's inputs lets the
// scheduler's file-overlap inference chain a downstream tasks/pkg or
// tasks/run task off Output without any artifact wiring.
type Task struct {
	arbor.BaseTask

	TaskName string
	// PkgDir is the package directory passed to `go build`, relative to
	// the owning target's Project.BaseDir unless absolute.
	PkgDir string
	// Sources are glob patterns for this task's declared inputs. They
	// are not consulted by `go build` itself, but are needed so the
	// incremental oracle and file-overlap inference see real source
	// dependencies.
	Sources []string
	// Output is the resulting binary's path.
	Output string
	// LdFlags, if set, is passed as `-ldflags`.
	LdFlags string
}

func (t *Task) Name() string { return t.TaskName }

func (t *Task) Validate() error {
	if t.PkgDir == "" || t.Output == "" {
		return fmt.Errorf("compile %s: PkgDir and Output are required", t.TaskName)
	}
	return nil
}

func (t *Task) Inputs() []string  { return t.Sources }
func (t *Task) Outputs() []string { return []string{t.Output} }

func (t *Task) ResolvedInputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Sources, cwd)
}

func (t *Task) ResolvedOutputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.Outputs(), cwd)
}

func (t *Task) Execute(rc *arbor.RunContext) error {
	out := t.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(rc.Dir, out)
	}

	args := []string{"build", "-o", out}
	if t.LdFlags != "" {
		args = append(args, "-ldflags", t.LdFlags)
	}
	args = append(args, t.PkgDir)

	cmd := exec.CommandContext(rc.Context, "go", args...)
	cmd.Dir = rc.Dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return arbor.WrapExternalCommandError(err, "%s: go %v\n%s", t.TaskName, args, buf.String())
	}
	return nil
}

// New constructs a compile task for a single main package.
func New(name, pkgDir, output string, sources ...string) *Task {
	return &Task{TaskName: name, PkgDir: pkgDir, Output: output, Sources: sources}
}
