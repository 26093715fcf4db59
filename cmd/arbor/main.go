// Command arbor is the reference CLI entry point: the build
// configuration is declared as plain Go code, since Go has no runtime
// build-script loader, so the build graph is itself a BuildFunc.
//
// A real consumer copies this file's shape into their own
// cmd/<project>/main.go and replaces demoBuild with their own project
// graph.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arborbuild/arbor"
	"github.com/arborbuild/arbor/tasks/archive"
	"github.com/arborbuild/arbor/tasks/compile"
	"github.com/arborbuild/arbor/tasks/copyfile"
	"github.com/arborbuild/arbor/tasks/pkg"
)

func main() {
	cmd := arbor.NewCLI(demoBuild)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// demoBuild wires a small two-project graph: a local target dependency
// (dist -> stage), a cross-project TargetRef (app:stage depends on
// lib:build), and a path chain (compile's Output is pkg's Binary, pkg's
// Dir is archive's Src). Each task of that chain sits in a different
// target, so its order comes from the target dependencies, not from
// file-overlap edges. No artifacts are declared.
func demoBuild(reg *arbor.Registry) error {
	lib := arbor.NewProject("lib", mustCwd())
	compileTask := compile.New("compile", "./cmd/libtool", "dist/libtool", "**/*.go")
	if err := lib.AddTarget(arbor.NewTarget("build", nil, []arbor.Task{compileTask})); err != nil {
		return err
	}
	if err := reg.AddProject(lib); err != nil {
		return err
	}

	app := arbor.NewProject("app", mustCwd())
	stageTask := pkg.New("stage", "dist/libtool", "dist/stage")
	readmeTask := copyfile.New("readme", "README.md", "dist/stage/README.md")
	archiveTask := archive.New("package", "dist/stage", "dist/app.zip")

	if err := app.AddTarget(arbor.NewTarget("stage",
		[]arbor.Dependency{arbor.TargetRef("lib", "build")},
		[]arbor.Task{stageTask, readmeTask},
	)); err != nil {
		return err
	}
	if err := app.AddTarget(arbor.NewTarget("dist",
		[]arbor.Dependency{arbor.LocalTargetName("stage")},
		[]arbor.Task{archiveTask},
	)); err != nil {
		return err
	}
	if err := reg.AddProject(app); err != nil {
		return err
	}

	return nil
}

func mustCwd() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arbor: %v\n", err)
		os.Exit(1)
	}
	return dir
}
