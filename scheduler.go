package arbor

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Scheduler builds and executes a single target's task DAG: construct
// (buildGraph), verify acyclic (detectTaskCycle), then walk it in
// levelised waves, each wave's ready nodes running concurrently up to a
// bounded cap of min(ready, NumCPU()*2).
type Scheduler struct {
	oracle *IncrementalOracle
}

// NewScheduler builds a scheduler. A nil oracle gets the real-filesystem
// default.
func NewScheduler(oracle *IncrementalOracle) *Scheduler {
	if oracle == nil {
		oracle = NewIncrementalOracle()
	}
	return &Scheduler{oracle: oracle}
}

// Run builds the DAG for tasks and executes it to completion or first
// error. Task validation already happened once, in declaration order,
// at target-construction time (Project.AddTarget); Run does not
// re-validate.
func (s *Scheduler) Run(rc *RunContext, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	nodes, err := buildGraph(tasks, rc.Dir)
	if err != nil {
		return err
	}
	if err := detectTaskCycle(nodes); err != nil {
		return err
	}

	remaining := make([]int, len(nodes))
	for i, n := range nodes {
		remaining[i] = len(n.deps)
	}
	done := make([]bool, len(nodes))
	finished := 0

	for finished < len(nodes) {
		var ready []int
		for i := range nodes {
			if !done[i] && remaining[i] == 0 {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			return newErr(KindNoProgress, "%d of %d tasks could not be scheduled", len(nodes)-finished, len(nodes))
		}

		if err := s.runWave(rc, nodes, ready); err != nil {
			return err
		}

		for _, i := range ready {
			done[i] = true
			finished++
			for _, dependent := range nodes[i].dependents {
				remaining[dependent]--
			}
		}
	}
	return nil
}

func (s *Scheduler) runWave(rc *RunContext, nodes []*taskNode, ready []int) error {
	limit := concurrencyCap(len(ready))

	g, gctx := errgroup.WithContext(rc.Context)
	g.SetLimit(limit)
	waveCtx := *rc
	waveCtx.Context = gctx

	for _, idx := range ready {
		n := nodes[idx]
		g.Go(func() error {
			return s.runNode(&waveCtx, n)
		})
	}
	return g.Wait()
}

func (s *Scheduler) runNode(rc *RunContext, n *taskNode) error {
	if !Produces(n.task) {
		skip, err := s.oracle.ShouldSkip(n.inputs, n.outputs)
		if err != nil {
			return err
		}
		if skip {
			rc.Log.Debug(fmt.Sprintf("%s up to date, skipping", taskLabel(n.task)))
			return nil
		}
	}

	id := rc.Log.StartProgress(taskLabel(n.task))
	if err := n.task.Execute(rc); err != nil {
		rc.Log.Error(taskLabel(n.task)+" failed", err)
		return err
	}
	rc.Log.CompleteProgress(id, "done")
	return nil
}

func taskLabel(t Task) string {
	if named, ok := t.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", t)
}

// concurrencyCap resolves the bounded-wave concurrency limit: never more
// than the number of nodes actually ready to run, never more than twice
// the machine's CPU count.
func concurrencyCap(ready int) int {
	max := runtime.NumCPU() * 2
	if ready < max {
		return ready
	}
	return max
}
