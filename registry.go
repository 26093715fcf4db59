package arbor

import "sort"

// Project groups an ordered set of Targets under a name and a base
// directory that every Target's tasks resolve relative paths against.
type Project struct {
	name    string
	baseDir string

	order   []string
	targets map[string]*Target

	// dependencies holds the names of other projects this one declares a
	// project-level dependency on, distinct from any Target's Dependency
	// list. The resolver drains this closure before running any target
	// that belongs to, or references, this project.
	dependencies []string
}

// NewProject constructs an empty project. Targets are added with
// AddTarget so the project backreference and declaration order are
// tracked correctly.
func NewProject(name, baseDir string) *Project {
	return &Project{name: name, baseDir: baseDir, targets: make(map[string]*Target)}
}

func (p *Project) Name() string    { return p.name }
func (p *Project) BaseDir() string { return p.baseDir }

// DependsOn declares a project-level dependency on another project by
// name. Existence isn't checked here, since the registry may not hold
// the named project yet during build-script evaluation; it is validated
// when the resolver drains the closure, raising KindUnknownProject if
// the name never resolves.
func (p *Project) DependsOn(projectName string) {
	p.dependencies = append(p.dependencies, projectName)
}

// Dependencies returns this project's project-level dependencies in
// declaration order.
func (p *Project) Dependencies() []string { return p.dependencies }

// AddTarget registers a target under this project. Returns
// KindInvalidTaskConfig if the name is already taken within the project
// (target names must be unique per project, though may repeat across
// projects), or if any of the target's tasks fails validation.
//
// Every task's Validate is called synchronously in declaration order
// here, at target-construction time, per spec.md §4.2: construction
// happens once during build-script evaluation, unconditionally, before
// any target is selected for execution, so a malformed task aborts the
// build regardless of which target specs a later `arbor run` names.
func (p *Project) AddTarget(t *Target) error {
	if _, exists := p.targets[t.name]; exists {
		return newErr(KindInvalidTaskConfig, "project %q already has a target named %q", p.name, t.name)
	}
	for _, task := range t.tasks {
		if err := task.Validate(); err != nil {
			return wrapErr(KindInvalidTaskConfig, err, "target %s:%s: task %s failed validation", p.name, t.name, taskLabel(task))
		}
	}
	t.project = p
	p.targets[t.name] = t
	p.order = append(p.order, t.name)
	return nil
}

// Target looks up a target by name, reporting KindUnknownTarget if absent.
func (p *Project) Target(name string) (*Target, error) {
	t, ok := p.targets[name]
	if !ok {
		return nil, newErr(KindUnknownTarget, "project %q has no target %q", p.name, name)
	}
	return t, nil
}

// Targets returns the project's targets in declaration order.
func (p *Project) Targets() []*Target {
	out := make([]*Target, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.targets[name])
	}
	return out
}

// Registry is the process-wide name→Project map a BuildFunc populates.
// Once handed to the resolver it is frozen: no further projects or
// targets may be added.
type Registry struct {
	order    []string
	projects map[string]*Project
	frozen   bool
}

// NewRegistry constructs an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{projects: make(map[string]*Project)}
}

// AddProject registers a project. Returns KindInvalidTaskConfig if the
// registry is frozen or the name is already taken.
func (r *Registry) AddProject(p *Project) error {
	if r.frozen {
		return newErr(KindInvalidTaskConfig, "registry is frozen: cannot add project %q", p.name)
	}
	if _, exists := r.projects[p.name]; exists {
		return newErr(KindInvalidTaskConfig, "project %q already registered", p.name)
	}
	r.projects[p.name] = p
	r.order = append(r.order, p.name)
	return nil
}

// Freeze prevents further mutation. Called once by arbor.Run immediately
// after the BuildFunc returns successfully.
func (r *Registry) Freeze() { r.frozen = true }

// Project looks up a project by name, reporting KindUnknownProject if
// absent.
func (r *Registry) Project(name string) (*Project, error) {
	p, ok := r.projects[name]
	if !ok {
		return nil, newErr(KindUnknownProject, "no project %q", name)
	}
	return p, nil
}

// Projects returns every registered project in declaration order.
func (r *Registry) Projects() []*Project {
	out := make([]*Project, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.projects[name])
	}
	return out
}

// ListTargets returns every (project, target) pair, sorted for stable
// `arbor list` output.
func (r *Registry) ListTargets() []string {
	var out []string
	for _, p := range r.Projects() {
		for _, t := range p.Targets() {
			out = append(out, p.name+":"+t.name)
		}
	}
	sort.Strings(out)
	return out
}
