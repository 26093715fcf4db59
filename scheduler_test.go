package arbor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rc() *RunContext {
	return &RunContext{Context: context.Background(), Dir: "/tmp/arbor-test", Project: "p", Target: "t", Log: NopLogger{}}
}

func TestSchedulerRunsDiamondDependencyInOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(name string) func(*RunContext) error {
		return func(*RunContext) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	// generate -> {lint, compile} -> archive, wired purely through file
	// overlap: generate writes gen/, lint and compile read gen/ and
	// write their own outputs, archive reads both.
	generate := &fakeTask{name: "generate", outputs: []string{"gen"}, execute: record("generate")}
	lint := &fakeTask{name: "lint", inputs: []string{"gen"}, outputs: []string{"lint-report"}, execute: record("lint")}
	compile := &fakeTask{name: "compile", inputs: []string{"gen"}, outputs: []string{"bin"}, execute: record("compile")}
	archive := &fakeTask{name: "archive", inputs: []string{"lint-report", "bin"}, outputs: []string{"archive.zip"}, execute: record("archive")}

	s := NewScheduler(nil)
	err := s.Run(rc(), []Task{generate, lint, compile, archive})
	require.NoError(t, err)

	require.Len(t, order, 4)
	assert.Equal(t, "generate", order[0])
	assert.Equal(t, "archive", order[3])
	assert.ElementsMatch(t, []string{"lint", "compile"}, order[1:3])
}

func TestSchedulerDetectsTwoTaskFileCycle(t *testing.T) {
	a := &fakeTask{name: "a", inputs: []string{"x"}, outputs: []string{"y"}}
	b := &fakeTask{name: "b", inputs: []string{"y"}, outputs: []string{"x"}}

	s := NewScheduler(nil)
	err := s.Run(rc(), []Task{a, b})
	require.Error(t, err)
	assert.True(t, Is(err, KindCircularFileDependency))
}

func TestSchedulerDetectsLongerTaskGraphCycle(t *testing.T) {
	out1 := NewArtifact[int]("a1")
	out2 := NewArtifact[int]("a2")
	out3 := NewArtifact[int]("a3")

	t1 := &fakeTask{name: "t1", inArtifacts: []ArtifactHandle{out3}, outArtifacts: []ArtifactHandle{out1}}
	t2 := &fakeTask{name: "t2", inArtifacts: []ArtifactHandle{out1}, outArtifacts: []ArtifactHandle{out2}}
	t3 := &fakeTask{name: "t3", inArtifacts: []ArtifactHandle{out2}, outArtifacts: []ArtifactHandle{out3}}
	require.NoError(t, RegisterProducers(t1))
	require.NoError(t, RegisterProducers(t2))
	require.NoError(t, RegisterProducers(t3))

	s := NewScheduler(nil)
	err := s.Run(rc(), []Task{t1, t2, t3})
	require.Error(t, err)
	assert.True(t, Is(err, KindCycleInTaskGraph))
}

func TestSchedulerArtifactFlowsProducerToConsumer(t *testing.T) {
	greeting := NewArtifact[string]("greeting")

	producer := &fakeTask{
		name:         "producer",
		outArtifacts: []ArtifactHandle{greeting},
		execute: func(*RunContext) error {
			greeting.SetValue("hello")
			return nil
		},
	}
	require.NoError(t, RegisterProducers(producer))

	var seen string
	consumer := &fakeTask{
		name:        "consumer",
		inArtifacts: []ArtifactHandle{greeting},
		execute: func(*RunContext) error {
			v, err := greeting.GetValue()
			if err != nil {
				return err
			}
			seen = v
			return nil
		},
	}

	s := NewScheduler(nil)
	require.NoError(t, s.Run(rc(), []Task{consumer, producer}))
	assert.Equal(t, "hello", seen)
}

func TestSchedulerMissingArtifactProducerErrors(t *testing.T) {
	orphan := NewArtifact[int]("orphan")
	consumer := &fakeTask{name: "consumer", inArtifacts: []ArtifactHandle{orphan}}

	s := NewScheduler(nil)
	err := s.Run(rc(), []Task{consumer})
	require.Error(t, err)
	assert.True(t, Is(err, KindMissingArtifactProducer))
}

func TestRegisterProducersRejectsDuplicateProducer(t *testing.T) {
	shared := NewArtifact[int]("shared")
	a := &fakeTask{name: "a", outArtifacts: []ArtifactHandle{shared}}
	b := &fakeTask{name: "b", outArtifacts: []ArtifactHandle{shared}}

	require.NoError(t, RegisterProducers(a))
	err := RegisterProducers(b)
	require.Error(t, err)
	assert.True(t, Is(err, KindDuplicateArtifactProducer))
}

func TestSchedulerRejectsTwoTasksClaimingSameArtifactOutput(t *testing.T) {
	shared := NewArtifact[int]("shared")
	a := &fakeTask{name: "a", outArtifacts: []ArtifactHandle{shared}}
	b := &fakeTask{name: "b", outArtifacts: []ArtifactHandle{shared}}

	s := NewScheduler(nil)
	err := s.Run(rc(), []Task{a, b})
	require.Error(t, err)
	assert.True(t, Is(err, KindDuplicateArtifactProducer))
}

