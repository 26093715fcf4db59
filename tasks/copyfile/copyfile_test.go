package copyfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborbuild/arbor"
	"github.com/arborbuild/arbor/tasks/copyfile"
)

func rc(dir string) *arbor.RunContext {
	return &arbor.RunContext{Context: context.Background(), Dir: dir, Log: arbor.NopLogger{}}
}

func TestCopyFileCopiesContentsAndCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.txt"), []byte("hello"), 0o644))

	task := copyfile.New("copy", "src.txt", "out/dst.txt")
	require.NoError(t, task.Validate())
	require.NoError(t, task.Execute(rc(dir)))

	got, err := os.ReadFile(filepath.Join(dir, "out", "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestCopyFileValidateRejectsMissingFields(t *testing.T) {
	task := &copyfile.Task{TaskName: "copy"}
	require.Error(t, task.Validate())
}

func TestCopyFileInputsOutputsMatchSrcDst(t *testing.T) {
	task := copyfile.New("copy", "a", "b")
	assert.Equal(t, []string{"a"}, task.Inputs())
	assert.Equal(t, []string{"b"}, task.Outputs())
}
