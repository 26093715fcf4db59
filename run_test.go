package arbor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEndToEndSingleProjectBareTargetName(t *testing.T) {
	var ran bool
	build := func(reg *Registry) error {
		p := NewProject("app", t.TempDir())
		task := &fakeTask{name: "build", execute: func(*RunContext) error { ran = true; return nil }}
		if err := p.AddTarget(NewTarget("build", nil, []Task{task})); err != nil {
			return err
		}
		return reg.AddProject(p)
	}

	err := Run(context.Background(), build, []string{"build"})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRunRejectsBareTargetNameWithMultipleProjects(t *testing.T) {
	build := func(reg *Registry) error {
		for _, name := range []string{"a", "b"} {
			p := NewProject(name, t.TempDir())
			if err := p.AddTarget(NewTarget("build", nil, nil)); err != nil {
				return err
			}
			if err := reg.AddProject(p); err != nil {
				return err
			}
		}
		return nil
	}

	err := Run(context.Background(), build, []string{"build"})
	require.Error(t, err)
	assert.True(t, Is(err, KindUnknownTarget))
}

func TestRunPropagatesBuildFuncError(t *testing.T) {
	boom := newErr(KindInvalidTaskConfig, "bad config")
	build := func(reg *Registry) error { return boom }

	err := Run(context.Background(), build, []string{"build"})
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidTaskConfig))
}
