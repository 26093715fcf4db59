package arbor

// Dependency is the sum type a Target's dependency list is made of:
// exactly one of LocalTargetName, TargetRef, or ProjectRef. The zero
// value is not a valid Dependency; always construct via the three
// functions below.
type Dependency struct {
	kind    depKind
	project string
	target  string
}

type depKind int

const (
	depLocalTarget depKind = iota
	depTargetRef
	depProjectRef
)

// LocalTargetName references a target by name within the same project as
// the referencing target.
func LocalTargetName(name string) Dependency {
	return Dependency{kind: depLocalTarget, target: name}
}

// TargetRef references a specific target in a named project.
func TargetRef(project, target string) Dependency {
	return Dependency{kind: depTargetRef, project: project, target: target}
}

// ProjectRef references another project's project-level dependency
// closure only: the resolver drains that project's own Dependencies
// (transitively) but never runs any of its targets as a side effect of
// this reference.
func ProjectRef(project string) Dependency {
	return Dependency{kind: depProjectRef, project: project}
}

func (d Dependency) String() string {
	switch d.kind {
	case depLocalTarget:
		return d.target
	case depTargetRef:
		return d.project + ":" + d.target
	case depProjectRef:
		return d.project + ":*"
	default:
		return "<invalid dependency>"
	}
}
