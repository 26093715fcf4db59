package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicateProjectNames(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddProject(NewProject("app", ".")))
	err := reg.AddProject(NewProject("app", "."))
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidTaskConfig))
}

func TestRegistryFreezeRejectsFurtherMutation(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()
	err := reg.AddProject(NewProject("app", "."))
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidTaskConfig))
}

func TestProjectRejectsDuplicateTargetNames(t *testing.T) {
	p := NewProject("app", ".")
	require.NoError(t, p.AddTarget(NewTarget("build", nil, nil)))
	err := p.AddTarget(NewTarget("build", nil, nil))
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidTaskConfig))
}

func TestAddTargetValidatesTasksAtConstructionTime(t *testing.T) {
	p := NewProject("app", ".")
	bad := &fakeTask{name: "bad", validateErr: newErr(KindInvalidTaskConfig, "missing required field")}
	err := p.AddTarget(NewTarget("build", nil, []Task{bad}))
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidTaskConfig))

	// A target whose validation failed is never registered: it does not
	// leak into Targets()/ListTargets(), and the same name may be
	// reused by a subsequent, valid AddTarget call.
	_, lookupErr := p.Target("build")
	require.Error(t, lookupErr)
	assert.True(t, Is(lookupErr, KindUnknownTarget))

	good := &fakeTask{name: "good"}
	require.NoError(t, p.AddTarget(NewTarget("build", nil, []Task{good})))
}

func TestAddTargetValidatesTasksInDeclarationOrder(t *testing.T) {
	p := NewProject("app", ".")
	var validated []string
	first := &fakeTask{name: "first", execute: nil}
	second := &fakeTask{
		name:        "second",
		validateErr: newErr(KindInvalidTaskConfig, "second is bad"),
	}
	// Wrap Validate to record order without perturbing fakeTask's shape.
	firstRecording := &recordingValidateTask{fakeTask: first, validated: &validated}
	secondRecording := &recordingValidateTask{fakeTask: second, validated: &validated}

	err := p.AddTarget(NewTarget("build", nil, []Task{firstRecording, secondRecording}))
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidTaskConfig))
	assert.Equal(t, []string{"first", "second"}, validated, "validate must be called in declaration order, stopping at the first failure")
}

// recordingValidateTask wraps a *fakeTask to record Validate call order
// without changing fakeTask's own field shape.
type recordingValidateTask struct {
	*fakeTask
	validated *[]string
}

func (r *recordingValidateTask) Validate() error {
	*r.validated = append(*r.validated, r.name)
	return r.fakeTask.Validate()
}

func TestRegistryListTargetsIsSortedAndQualified(t *testing.T) {
	reg := NewRegistry()
	p := NewProject("app", ".")
	require.NoError(t, p.AddTarget(NewTarget("test", nil, nil)))
	require.NoError(t, p.AddTarget(NewTarget("build", nil, nil)))
	require.NoError(t, reg.AddProject(p))

	assert.Equal(t, []string{"app:build", "app:test"}, reg.ListTargets())
}

func TestProjectDependsOnRecordsDeclarationOrder(t *testing.T) {
	p := NewProject("app", ".")
	p.DependsOn("utils")
	p.DependsOn("base")
	assert.Equal(t, []string{"utils", "base"}, p.Dependencies())
}

func TestUnknownProjectAndTargetErrors(t *testing.T) {
	reg := NewRegistry()
	p := NewProject("app", ".")
	require.NoError(t, reg.AddProject(p))

	_, err := reg.Project("missing")
	require.Error(t, err)
	assert.True(t, Is(err, KindUnknownProject))

	_, err = p.Target("missing")
	require.Error(t, err)
	assert.True(t, Is(err, KindUnknownTarget))
}
