package arbor

import "context"

// TargetResolver walks a target's Dependencies depth-first before running
// its own Tasks. Two memoisation sets (executedTargets, executedProjects)
// prevent re-running shared dependencies, and an in-progress set turns a
// re-visit mid-walk into a KindCyclicTargetDependency error instead of
// infinite recursion.
//
// Target execution itself is serialised: executeTarget only returns once
// its TaskScheduler run has completed, and nothing below calls it
// concurrently.
type TargetResolver struct {
	registry  *Registry
	scheduler *Scheduler
	log       Logger

	executedTargets  map[string]bool
	executedProjects map[string]bool
	inProgress       map[string]bool
}

// NewTargetResolver builds a resolver over a frozen registry.
func NewTargetResolver(registry *Registry, scheduler *Scheduler, log Logger) *TargetResolver {
	if log == nil {
		log = NopLogger{}
	}
	return &TargetResolver{
		registry:         registry,
		scheduler:        scheduler,
		log:              log,
		executedTargets:  make(map[string]bool),
		executedProjects: make(map[string]bool),
		inProgress:       make(map[string]bool),
	}
}

// Execute runs a single (project, target) pair and everything it
// transitively depends on. The root project's own project-level
// dependency closure is drained before the target itself starts,
// regardless of whether any Dependency names it explicitly.
func (r *TargetResolver) Execute(ctx context.Context, projectName, targetName string) error {
	p, err := r.registry.Project(projectName)
	if err != nil {
		return err
	}
	if err := r.executeProjectClosure(ctx, projectName); err != nil {
		return err
	}
	t, err := p.Target(targetName)
	if err != nil {
		return err
	}
	return r.executeTarget(ctx, t)
}

func (r *TargetResolver) executeTarget(ctx context.Context, t *Target) error {
	qn := t.qualifiedName()
	if r.executedTargets[qn] {
		return nil
	}
	if r.inProgress[qn] {
		return newErr(KindCyclicTargetDependency, "dependency cycle reaches %q again", qn)
	}
	r.inProgress[qn] = true
	defer delete(r.inProgress, qn)

	for _, dep := range t.dependencies {
		if err := r.executeDependency(ctx, t.project, dep); err != nil {
			return err
		}
	}

	r.log.PushContext(t.project.name, t.name)
	defer r.log.PopContext()

	rc := &RunContext{
		Context: ctx,
		Dir:     t.project.baseDir,
		Project: t.project.name,
		Target:  t.name,
		Log:     r.log,
	}
	if err := r.scheduler.Run(rc, t.tasks); err != nil {
		return err
	}

	r.executedTargets[qn] = true
	return nil
}

func (r *TargetResolver) executeDependency(ctx context.Context, owner *Project, dep Dependency) error {
	switch dep.kind {
	case depLocalTarget:
		t, err := owner.Target(dep.target)
		if err != nil {
			return err
		}
		return r.executeTarget(ctx, t)
	case depTargetRef:
		// A TargetRef implies the referenced project's own
		// project-closure must run before its target does.
		if err := r.executeProjectClosure(ctx, dep.project); err != nil {
			return err
		}
		p, err := r.registry.Project(dep.project)
		if err != nil {
			return err
		}
		t, err := p.Target(dep.target)
		if err != nil {
			return err
		}
		return r.executeTarget(ctx, t)
	case depProjectRef:
		return r.executeProjectClosure(ctx, dep.project)
	default:
		return newErr(KindInvalidTaskConfig, "malformed dependency on project %q", owner.name)
	}
}

// executeProjectClosure drains a project's project-level Dependencies
// recursively, memoised in executedProjects. It never runs any target:
// a ProjectRef does not by itself run any target of that project, and a
// TargetRef only needs the referenced project's own dependency closure
// satisfied, not its targets executed as a side effect of being
// referenced.
func (r *TargetResolver) executeProjectClosure(ctx context.Context, name string) error {
	if r.executedProjects[name] {
		return nil
	}
	p, err := r.registry.Project(name)
	if err != nil {
		return err
	}
	r.executedProjects[name] = true
	for _, depName := range p.Dependencies() {
		if err := r.executeProjectClosure(ctx, depName); err != nil {
			return err
		}
	}
	return nil
}
