package arbor

import "os"

// IncrementalOracle decides whether a task's work is already up to date
// by comparing input and output modification times. It never hashes
// content and never persists anything across process invocations.
type IncrementalOracle struct {
	statFunc func(path string) (os.FileInfo, error)
}

// NewIncrementalOracle builds an oracle backed by the real filesystem.
func NewIncrementalOracle() *IncrementalOracle {
	return &IncrementalOracle{statFunc: os.Stat}
}

// ShouldSkip reports whether a task with the given resolved inputs and
// outputs can be skipped: true only when every declared output exists
// and is strictly newer than every declared input. A tie (equal mtimes,
// e.g. after an untar/checkout that stamps files identically, or on a
// filesystem with coarse mtime resolution) is not up to date and must
// rerun. A task with no declared outputs is never skippable, since
// there is nothing to compare against, so it always runs (this mirrors
// a task whose only purpose is a side effect, e.g. tasks/run).
func (o *IncrementalOracle) ShouldSkip(inputs, outputs []string) (bool, error) {
	if len(outputs) == 0 {
		return false, nil
	}

	var oldestOutput, newestInput int64
	oldestOutput = -1
	for _, out := range outputs {
		info, err := o.statFunc(out)
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, wrapErr(KindInvalidTaskConfig, err, "stat output %q", out)
		}
		mtime := info.ModTime().UnixNano()
		if oldestOutput == -1 || mtime < oldestOutput {
			oldestOutput = mtime
		}
	}

	for _, in := range inputs {
		info, err := o.statFunc(in)
		if err != nil {
			if os.IsNotExist(err) {
				// Missing inputs contribute mtime 0 to the max
				// computation rather than forcing a rerun by
				// themselves (spec.md §4.6): existence is only
				// checked for outputs.
				continue
			}
			return false, wrapErr(KindInvalidTaskConfig, err, "stat input %q", in)
		}
		mtime := info.ModTime().UnixNano()
		if mtime > newestInput {
			newestInput = mtime
		}
	}

	return oldestOutput > newestInput, nil
}
