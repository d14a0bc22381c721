// Package shellasset builds iotaa Assets whose readiness is determined by
// running a shell command: ready iff the command exits zero. This lets a
// module declare a Basic task's asset in terms of an external check program
// (a test suite, a linter, a health probe) instead of a file or in-memory
// predicate.
package shellasset

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	iotaa "github.com/maddenp/iotaa-go"
)

// Result is the outcome of running a single readiness command.
type Result struct {
	Passed   bool
	Command  []string
	Output   string
	Duration time.Duration
}

// Runner executes readiness-check commands as subprocesses.
type Runner struct {
	workDir         string
	allowedCommands map[string]bool
	maxOutputBytes  int
}

// DefaultMaxOutputBytes bounds how much combined stdout/stderr is retained
// per command before truncation.
const DefaultMaxOutputBytes = 1024 * 1024

// NewRunner returns a Runner whose commands execute in workDir. An empty
// workDir runs commands in the current process's working directory.
func NewRunner(workDir string) *Runner {
	return &Runner{workDir: workDir, maxOutputBytes: DefaultMaxOutputBytes}
}

// AllowCommands restricts execution to the given base command names. Passing
// no commands clears the allowlist, permitting anything.
func (r *Runner) AllowCommands(names ...string) {
	if len(names) == 0 {
		r.allowedCommands = nil
		return
	}
	r.allowedCommands = make(map[string]bool, len(names))
	for _, n := range names {
		r.allowedCommands[n] = true
	}
}

// SetMaxOutputBytes overrides the output-retention limit.
func (r *Runner) SetMaxOutputBytes(n int) {
	r.maxOutputBytes = n
}

// Run executes cmdArgs and reports whether it exited zero.
func (r *Runner) Run(ctx context.Context, cmdArgs []string) Result {
	start := time.Now()

	if len(cmdArgs) == 0 {
		return Result{Command: cmdArgs, Output: "error: empty command", Duration: time.Since(start)}
	}

	name := cmdArgs[0]
	if r.allowedCommands != nil && !r.allowedCommands[name] {
		return Result{
			Command:  cmdArgs,
			Output:   fmt.Sprintf("error: command %q is not allowed", name),
			Duration: time.Since(start),
		}
	}

	cmd := exec.CommandContext(ctx, name, cmdArgs[1:]...)
	if r.workDir != "" {
		cmd.Dir = r.workDir
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return Result{
		Passed:   err == nil,
		Command:  cmdArgs,
		Output:   r.truncate(out.String()),
		Duration: time.Since(start),
	}
}

func (r *Runner) truncate(output string) string {
	if r.maxOutputBytes <= 0 || len(output) <= r.maxOutputBytes {
		return output
	}
	return output[:r.maxOutputBytes] + "\n... [output truncated]"
}

// Command returns an iotaa.Asset named ref whose readiness is "the last run
// of cmdArgs under r exited zero". The command is re-run on every readiness
// check, so it should be cheap and idempotent — a test suite invocation, a
// linter, a health-check script, not a build step with side effects.
func (r *Runner) Command(ref any, cmdArgs []string) iotaa.Asset {
	return iotaa.NewAsset(ref, func() bool {
		return r.Run(context.Background(), cmdArgs).Passed
	})
}
