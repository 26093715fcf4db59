package arbor

// Target is a named, orderable unit of work within a Project: a list of
// Dependencies that must run first and a list of Tasks whose
// file/artifact edges the TaskScheduler turns into a per-target DAG.
type Target struct {
	name         string
	project      *Project
	dependencies []Dependency
	tasks        []Task
}

// NewTarget constructs a target. It is normally called through
// Project.AddTarget rather than directly, so the project backreference is
// set correctly.
func NewTarget(name string, dependencies []Dependency, tasks []Task) *Target {
	return &Target{name: name, dependencies: dependencies, tasks: tasks}
}

func (t *Target) Name() string              { return t.name }
func (t *Target) Dependencies() []Dependency { return t.dependencies }
func (t *Target) Tasks() []Task             { return t.tasks }
func (t *Target) Project() *Project         { return t.project }

// qualifiedName is used as the memoisation key in the target resolver
// ("project:target"), disambiguating identically-named targets in
// different projects per the duplicate-target-names open question.
func (t *Target) qualifiedName() string {
	return t.project.name + ":" + t.name
}
