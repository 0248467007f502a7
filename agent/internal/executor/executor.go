package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Statuses reported back to the coordinator.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of one command execution.
type Result struct {
	Status   string
	Output   string
	ExitCode int
	Duration time.Duration
}

// Executor runs opaque shell commands with a bounded timeout. A command
// that exceeds the deadline is killed and reported as an error; execution
// failure never propagates out as an error, only as a Result.
type Executor struct {
	timeout time.Duration
}

func NewExecutor(timeout time.Duration) *Executor {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Executor{timeout: timeout}
}

func (e *Executor) Execute(command string) *Result {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	start := time.Now()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Duration: time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.Status = StatusError
		result.ExitCode = -1
		result.Output = fmt.Sprintf("command timed out after %v", e.timeout)
		return result
	}

	if err != nil {
		result.Status = StatusError
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		result.Output = firstNonEmpty(stdout.String(), stderr.String(), err.Error())
		return result
	}

	result.Status = StatusSuccess
	result.ExitCode = 0
	result.Output = firstNonEmpty(stdout.String(), stderr.String())
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
