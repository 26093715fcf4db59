package arbor

import "sync"

// ArtifactHandle is the type-erased view of an Artifact[T] used for graph
// wiring (producer/consumer bookkeeping, cycle detection) where the
// payload type T is irrelevant. Concrete tasks hold the typed *Artifact[T]
// for Set/Get; Task.InputArtifacts/OutputArtifacts expose only this.
type ArtifactHandle interface {
	// Name is the artifact's declared name, used in error messages and
	// `arbor list --json` output.
	Name() string
	// RegisterProducer records t as the artifact's producer. Returns
	// KindDuplicateArtifactProducer if a different task already holds
	// that role; idempotent when called again by the same task.
	RegisterProducer(t Task) error
	// HasProducer reports whether a producer has been registered.
	HasProducer() bool
	// HasDefault reports whether the artifact was constructed with a
	// default value.
	HasDefault() bool
	// HasValue reports whether a value is currently set, either by a
	// producer having run or by a default.
	HasValue() bool
	// Reset clears any previously set value, keeping the default (if
	// any) and the registered producer. Used between independent runs
	// of the same process (e.g. repeated `arbor run` invocations from a
	// long-lived host).
	Reset()
}

// Artifact is a typed, named, at-most-one-producer value cell shared
// between a producing task and any number of consuming tasks in the
// same target's task graph. Exactly one task may register as its
// producer; every other task referencing it is a consumer.
type Artifact[T any] struct {
	name string

	mu       sync.RWMutex
	producer Task
	value    T
	hasValue bool

	hasDefault bool
	defaultVal T
}

// NewArtifact declares an artifact with no default: GetValue fails with
// KindArtifactUnresolved until a producer has run.
func NewArtifact[T any](name string) *Artifact[T] {
	return &Artifact[T]{name: name}
}

// NewArtifactWithDefault declares an artifact that resolves to def until a
// producer sets a value (e.g. when no task claims the output at all and
// it is purely consumer side).
func NewArtifactWithDefault[T any](name string, def T) *Artifact[T] {
	return &Artifact[T]{name: name, hasDefault: true, defaultVal: def}
}

func (a *Artifact[T]) Name() string { return a.name }

func (a *Artifact[T]) RegisterProducer(t Task) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.producer != nil && a.producer != t {
		return newErr(KindDuplicateArtifactProducer,
			"artifact %q already has a producer", a.name)
	}
	a.producer = t
	return nil
}

func (a *Artifact[T]) HasProducer() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.producer != nil
}

func (a *Artifact[T]) HasDefault() bool { return a.hasDefault }

func (a *Artifact[T]) HasValue() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hasValue || a.hasDefault
}

// SetValue is called by the producing task's Execute to publish its
// result. Calling it from any task other than the registered producer is
// a programming error the caller is responsible for avoiding; the core
// does not enforce it at this layer (enforcement happens at
// RegisterProducer/graph-build time).
func (a *Artifact[T]) SetValue(v T) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = v
	a.hasValue = true
}

// GetValue returns the published value, falling back to the default.
// Returns KindArtifactUnresolved if neither is available: this can
// happen when no producer has called SetValue yet, e.g. a producer that
// returned without publishing. Producers are never skipped by the
// incremental oracle (see Produces).
func (a *Artifact[T]) GetValue() (T, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.hasValue {
		return a.value, nil
	}
	if a.hasDefault {
		return a.defaultVal, nil
	}
	var zero T
	return zero, newErr(KindArtifactUnresolved, "artifact %q has no value and no default", a.name)
}

func (a *Artifact[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hasValue = false
	var zero T
	a.value = zero
}

// RegisterProducers is a helper for concrete task constructors (in
// tasks/*) to call once their struct is fully built: a Task registers
// itself as producer of each of its output Artifacts at construction
// time.
func RegisterProducers(t Task) error {
	for _, a := range t.OutputArtifacts() {
		if err := a.RegisterProducer(t); err != nil {
			return err
		}
	}
	return nil
}
