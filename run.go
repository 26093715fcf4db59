package arbor

import (
	"context"
	"strings"
)

// BuildFunc populates a Registry with Projects, Targets, and Tasks. Go
// has no runtime script loader, so the build configuration is itself a
// plain Go function, evaluated once to populate the registry.
type BuildFunc func(*Registry) error

// Options configures a Run invocation.
type Options struct {
	Logger Logger
	Oracle *IncrementalOracle
}

// Option mutates Options. Passed variadically to Run.
type Option func(*Options)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithOracle overrides the default real-filesystem incremental oracle,
// primarily for tests that want deterministic mtimes.
func WithOracle(oracle *IncrementalOracle) Option {
	return func(o *Options) { o.Oracle = oracle }
}

// Run evaluates build once to populate a fresh Registry, freezes it, then
// resolves and executes each of targetSpecs in order. Each spec follows
// an `ident (":" ident)?` grammar: a bare ident is only valid when the
// registry holds exactly one project.
func Run(ctx context.Context, build BuildFunc, targetSpecs []string, opts ...Option) error {
	options := &Options{Logger: NopLogger{}}
	for _, opt := range opts {
		opt(options)
	}

	registry := NewRegistry()
	if err := build(registry); err != nil {
		return wrapErr(KindInvalidTaskConfig, err, "build configuration failed")
	}
	registry.Freeze()

	scheduler := NewScheduler(options.Oracle)
	resolver := NewTargetResolver(registry, scheduler, options.Logger)

	for _, spec := range targetSpecs {
		projectName, targetName, err := ParseTargetSpec(spec, registry)
		if err != nil {
			return err
		}
		if err := resolver.Execute(ctx, projectName, targetName); err != nil {
			return err
		}
	}
	return nil
}

// ParseTargetSpec splits a CLI target spec into project and target names.
// An explicit "project:target" is always honored; a bare "target" is
// only accepted when registry has exactly one project.
func ParseTargetSpec(spec string, registry *Registry) (project, target string, err error) {
	if strings.Count(spec, ":") > 1 {
		return "", "", newErr(KindUnknownTarget, "target spec %q has more than one ':'", spec)
	}
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		project, target = spec[:i], spec[i+1:]
		if project == "" || target == "" {
			return "", "", newErr(KindUnknownTarget, "target spec %q has an empty project or target component", spec)
		}
		return project, target, nil
	}
	if spec == "" {
		return "", "", newErr(KindUnknownTarget, "target spec is empty")
	}
	projects := registry.Projects()
	if len(projects) != 1 {
		return "", "", newErr(KindUnknownTarget,
			"target %q is ambiguous: specify project:target (registry has %d projects)", spec, len(projects))
	}
	return projects[0].Name(), spec, nil
}
