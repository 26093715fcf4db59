package arbor

import (
	"path/filepath"
	"strings"
)

// taskNode is one arena-indexed entry in a target's task graph: slice
// index identity rather than pointer identity, to avoid pointer-chasing
// cycles during DFS.
type taskNode struct {
	idx     int
	task    Task
	inputs  []string
	outputs []string

	// deps holds the set of node indices that must complete before this
	// node may run (both file-overlap and artifact producer/consumer
	// edges collapse into this one adjacency set).
	deps       map[int]bool
	dependents []int
}

// buildGraph resolves every task's inputs/outputs/artifacts against cwd
// and infers the edges of the per-target task DAG: pairwise file-overlap
// edges in declaration order plus artifact producer-to-consumer edges.
func buildGraph(tasks []Task, cwd string) ([]*taskNode, error) {
	nodes := make([]*taskNode, len(tasks))
	producerIndex := make(map[ArtifactHandle]int)

	for i, t := range tasks {
		in, err := t.ResolvedInputs(cwd)
		if err != nil {
			return nil, err
		}
		out, err := t.ResolvedOutputs(cwd)
		if err != nil {
			return nil, err
		}
		nodes[i] = &taskNode{idx: i, task: t, inputs: in, outputs: out, deps: make(map[int]bool)}
		for _, a := range t.OutputArtifacts() {
			if existing, claimed := producerIndex[a]; claimed && existing != i {
				return nil, newErr(KindDuplicateArtifactProducer,
					"artifact %q is claimed as output by both task %d and task %d", a.Name(), existing, i)
			}
			producerIndex[a] = i
		}
	}

	for i := range tasks {
		for j := range tasks {
			if i == j {
				continue
			}
			if pathSetsOverlap(nodes[i].outputs, nodes[j].inputs) {
				nodes[j].deps[i] = true
			}
		}
	}

	for i := range tasks {
		for j := i + 1; j < len(tasks); j++ {
			if nodes[i].deps[j] && nodes[j].deps[i] {
				return nil, newErr(KindCircularFileDependency,
					"tasks %d and %d have inputs/outputs overlapping in both directions", i, j)
			}
		}
	}

	for i, t := range tasks {
		for _, a := range t.InputArtifacts() {
			if producer, ok := producerIndex[a]; ok {
				if producer != i {
					nodes[i].deps[producer] = true
				}
				continue
			}
			if !a.HasProducer() && !a.HasDefault() {
				return nil, newErr(KindMissingArtifactProducer,
					"artifact %q has no producer in this target and no default", a.Name())
			}
		}
	}

	for i, n := range nodes {
		for d := range n.deps {
			nodes[d].dependents = append(nodes[d].dependents, i)
		}
	}
	return nodes, nil
}

// pathSetsOverlap reports whether any path in xs overlaps any path in
// ys: two paths overlap iff they are equal or one is a strict
// directory-prefix of the other.
func pathSetsOverlap(xs, ys []string) bool {
	for _, x := range xs {
		for _, y := range ys {
			if pathsOverlap(x, y) {
				return true
			}
		}
	}
	return false
}

func pathsOverlap(a, b string) bool {
	a = filepath.Clean(a)
	b = filepath.Clean(b)
	if a == b {
		return true
	}
	if strings.HasPrefix(b, a+string(filepath.Separator)) {
		return true
	}
	if strings.HasPrefix(a, b+string(filepath.Separator)) {
		return true
	}
	return false
}
