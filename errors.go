package arbor

import (
	"errors"
	"fmt"
)

// Kind identifies the taxonomy of error a build can fail with. None of
// these kinds are recoverable; the core never retries.
type Kind string

const (
	// KindInvalidTaskConfig is raised when a Task's Validate reports
	// missing or malformed configuration.
	KindInvalidTaskConfig Kind = "InvalidTaskConfig"
	// KindUnknownTarget is raised when a Dependency resolves to no
	// registered Target.
	KindUnknownTarget Kind = "UnknownTarget"
	// KindUnknownProject is raised when a Dependency resolves to no
	// registered Project.
	KindUnknownProject Kind = "UnknownProject"
	// KindCyclicTargetDependency is raised when the target resolver's
	// in-progress set is hit again during a depth-first walk.
	KindCyclicTargetDependency Kind = "CyclicTargetDependency"
	// KindCycleInTaskGraph is raised by the scheduler's second-pass DFS
	// over the combined file/artifact edge set.
	KindCycleInTaskGraph Kind = "CycleInTaskGraph"
	// KindCircularFileDependency is raised when two tasks' declared
	// inputs/outputs overlap in both directions.
	KindCircularFileDependency Kind = "CircularFileDependency"
	// KindDuplicateArtifactProducer is raised when two tasks claim the
	// same Artifact as an output.
	KindDuplicateArtifactProducer Kind = "DuplicateArtifactProducer"
	// KindMissingArtifactProducer is raised when an Artifact is consumed
	// without a registered producer and without a default.
	KindMissingArtifactProducer Kind = "MissingArtifactProducer"
	// KindArtifactUnresolved is raised by Artifact.GetValue on an unset
	// cell with no default.
	KindArtifactUnresolved Kind = "ArtifactUnresolved"
	// KindExternalCommandError wraps a non-zero exit from a child process
	// run by a concrete task.
	KindExternalCommandError Kind = "ExternalCommandError"
	// KindNoProgress is the scheduler's defensive fallback: the wave loop
	// found no ready node despite cycle detection having already run.
	KindNoProgress Kind = "NoProgress"
)

// Error is the concrete error type the core raises. Kind lets callers
// (the CLI, tests) branch on the taxonomy without string matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WrapExternalCommandError wraps a failed child-process invocation as
// KindExternalCommandError. Exported for concrete tasks (tasks/run,
// tasks/compile, …) outside this package that shell out.
func WrapExternalCommandError(cause error, format string, args ...any) error {
	return wrapErr(KindExternalCommandError, cause, format, args...)
}

// Is reports whether err is (or wraps) an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
