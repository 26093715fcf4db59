package deletefile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborbuild/arbor"
	"github.com/arborbuild/arbor/tasks/deletefile"
)

func rc(dir string) *arbor.RunContext {
	return &arbor.RunContext{Context: context.Background(), Dir: dir, Log: arbor.NopLogger{}}
}

func TestDeleteFileRemovesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	task := deletefile.New("clean", "gone.txt")
	require.NoError(t, task.Execute(rc(dir)))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteFileMissingPathIsNotAnError(t *testing.T) {
	task := deletefile.New("clean", "does-not-exist.txt")
	require.NoError(t, task.Execute(rc(t.TempDir())))
}

func TestDeleteFileBeforeDeclaresPathAsInput(t *testing.T) {
	task := deletefile.NewBefore("clean", "dist")
	assert.Equal(t, []string{"dist"}, task.Inputs())
	assert.Empty(t, task.Outputs())
}

func TestDeleteFileDefaultDeclaresPathAsOutput(t *testing.T) {
	task := deletefile.New("clean", "dist")
	assert.Equal(t, []string{"dist"}, task.Outputs())
	assert.Empty(t, task.Inputs())
}
