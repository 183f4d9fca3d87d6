package main

import (
	"os"
	"os/exec"
	"testing"
)

// helperCommand re-runs the test binary limited to one test, with env appended.
func helperCommand(t *testing.T, testName string, env ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^"+testName+"$")
	cmd.Env = append(os.Environ(), env...)
	return cmd
}
