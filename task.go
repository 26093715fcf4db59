package arbor

import (
	"context"
	"path/filepath"
)

// RunContext carries everything a Task's Execute needs beyond its own
// configuration: the resolved working directory (never the process
// cwd), the owning project/target names for logging, and the shared
// logger.
type RunContext struct {
	context.Context

	// Dir is the working directory a task should treat as "here",
	// derived from the owning Project's BaseDir. Tasks that shell out
	// (tasks/run, tasks/compile) must pass this explicitly to the child
	// process rather than relying on the parent's cwd.
	Dir string

	Project string
	Target  string

	Log Logger
}

// Task is the capability interface every concrete unit of work
// implements. The scheduler never knows what a task does, only its
// declared file/artifact edges and its Validate/Execute lifecycle.
type Task interface {
	// Validate reports configuration errors (KindInvalidTaskConfig)
	// before any task in the target starts running.
	Validate() error

	// Execute performs the task's work. Called with a RunContext whose
	// Dir is the owning project's base directory.
	Execute(rc *RunContext) error

	// Inputs returns declared input path patterns (may contain globs).
	Inputs() []string
	// Outputs returns declared output path patterns.
	Outputs() []string

	// InputArtifacts returns the artifacts this task consumes.
	InputArtifacts() []ArtifactHandle
	// OutputArtifacts returns the artifacts this task produces.
	OutputArtifacts() []ArtifactHandle

	// ResolvedInputs/ResolvedOutputs expand Inputs()/Outputs() against
	// cwd into concrete, absolute paths for the scheduler's file-overlap
	// inference and the incremental oracle's mtime checks.
	ResolvedInputs(cwd string) ([]string, error)
	ResolvedOutputs(cwd string) ([]string, error)
}

// BaseTask is embedded by concrete tasks to get the shared ResolveGlobs
// expansion routine (stdlib path/filepath.Glob; see DESIGN.md for why
// this stays stdlib) and empty artifact lists. It does not define
// ResolvedInputs/ResolvedOutputs: each concrete task implements those,
// usually by forwarding to ResolveGlobs, or with its own logic when a
// task's notion of "inputs" isn't a flat glob set. Concrete tasks
// override InputArtifacts/OutputArtifacts when they participate in
// artifact edges.
type BaseTask struct{}

func (BaseTask) InputArtifacts() []ArtifactHandle  { return nil }
func (BaseTask) OutputArtifacts() []ArtifactHandle { return nil }

// ResolveGlobs is the shared expansion routine concrete tasks delegate to
// from their own ResolvedInputs/ResolvedOutputs (Go has no virtual method
// dispatch through an embedded struct, so each concrete task wires this
// itself, typically a one-line forward).
func (BaseTask) ResolveGlobs(patterns []string, cwd string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		pattern := p
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(cwd, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, wrapErr(KindInvalidTaskConfig, err, "invalid glob pattern %q", p)
		}
		if matches == nil {
			// No filesystem match yet (e.g. a not-yet-produced output
			// pattern without globs). Treat a literal, non-glob pattern
			// as itself so declared outputs still participate in
			// overlap inference before they exist on disk.
			if !containsGlobMeta(pattern) {
				out = append(out, filepath.Clean(pattern))
			}
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func containsGlobMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']':
			return true
		}
	}
	return false
}

// Produces reports whether a task has any output artifacts. This is the
// signal the scheduler uses to decide whether the incremental oracle's
// skip decision alone is sufficient: a task with output artifacts always
// executes, since skipping it would leave its artifact unpopulated for
// any consumer.
func Produces(t Task) bool { return len(t.OutputArtifacts()) > 0 }
