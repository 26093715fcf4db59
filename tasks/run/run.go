// Package run implements arbor's external-command task: os/exec.CommandContext
// against an explicit working directory (never the process cwd, always
// RunContext.Dir), with captured output surfaced on failure and streamed
// output when verbose.
package run

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arborbuild/arbor"
)

// Task runs an external command. It has no declared outputs by default,
// so the incremental oracle never skips it: a task with no outputs
// always runs.
type Task struct {
	arbor.BaseTask

	TaskName string
	Command  string
	Args     []string
	// InputPaths/OutputPaths optionally wire this task into the
	// scheduler's file-overlap inference (e.g. running a generated
	// binary that was itself a compile task's output).
	InputPaths  []string
	OutputPaths []string
	// Env holds additional "KEY=VALUE" entries appended to the child's
	// environment.
	Env []string
	// Verbose streams output live instead of capturing it for
	// error-only display.
	Verbose bool
}

func (t *Task) Name() string { return t.TaskName }

func (t *Task) Validate() error {
	if t.Command == "" {
		return fmt.Errorf("run %s: Command is required", t.TaskName)
	}
	return nil
}

func (t *Task) Inputs() []string  { return t.InputPaths }
func (t *Task) Outputs() []string { return t.OutputPaths }

func (t *Task) ResolvedInputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.InputPaths, cwd)
}

func (t *Task) ResolvedOutputs(cwd string) ([]string, error) {
	return t.BaseTask.ResolveGlobs(t.OutputPaths, cwd)
}

func (t *Task) Execute(rc *arbor.RunContext) error {
	name := t.Command
	if !filepath.IsAbs(name) && filepath.Base(name) != name {
		name = filepath.Join(rc.Dir, name)
	}

	cmd := exec.CommandContext(rc.Context, name, t.Args...)
	cmd.Dir = rc.Dir
	if len(t.Env) > 0 {
		cmd.Env = append(cmd.Environ(), t.Env...)
	}

	if t.Verbose {
		// Streamed mode has no captured buffer to attach to the error.
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return arbor.WrapExternalCommandError(err, "%s: %s %v", t.TaskName, t.Command, t.Args)
		}
		return nil
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return arbor.WrapExternalCommandError(err, "%s: %s %v\n%s", t.TaskName, t.Command, t.Args, buf.String())
	}
	return nil
}

// New constructs a run task for an external command.
func New(name, command string, args ...string) *Task {
	return &Task{TaskName: name, Command: command, Args: args}
}
