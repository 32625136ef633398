package test

import (
	"strings"
	"time"

	"github.com/carina-io/nasconsole/utils/exec"
)

// MockExecutor mocks a process executor, nil funcs succeed with empty output
type MockExecutor struct {
	MockLookPath                         func(command string) (string, error)
	MockExecuteCommandWithOutput         func(command string, arg ...string) (string, error)
	MockExecuteCommandWithCombinedOutput func(command string, arg ...string) (string, error)
	MockExecuteCommandWithTimeout        func(timeout time.Duration, command string, arg ...string) (string, error)
	MockExecuteCommandInteractive        func(command string, arg ...string) error

	// Calls every executed command line in order, LookPath excluded
	Calls []string
}

func (e *MockExecutor) LookPath(command string) (string, error) {
	if e.MockLookPath != nil {
		return e.MockLookPath(command)
	}
	return "/usr/bin/" + command, nil
}

func (e *MockExecutor) ExecuteCommandWithOutput(command string, arg ...string) (string, error) {
	e.record(command, arg)
	if e.MockExecuteCommandWithOutput != nil {
		return e.MockExecuteCommandWithOutput(command, arg...)
	}
	return "", nil
}

func (e *MockExecutor) ExecuteCommandWithCombinedOutput(command string, arg ...string) (string, error) {
	e.record(command, arg)
	if e.MockExecuteCommandWithCombinedOutput != nil {
		return e.MockExecuteCommandWithCombinedOutput(command, arg...)
	}
	return "", nil
}

func (e *MockExecutor) ExecuteCommandWithTimeout(timeout time.Duration, command string, arg ...string) (string, error) {
	e.record(command, arg)
	if e.MockExecuteCommandWithTimeout != nil {
		return e.MockExecuteCommandWithTimeout(timeout, command, arg...)
	}
	return "", nil
}

func (e *MockExecutor) ExecuteCommandInteractive(command string, arg ...string) error {
	e.record(command, arg)
	if e.MockExecuteCommandInteractive != nil {
		return e.MockExecuteCommandInteractive(command, arg...)
	}
	return nil
}

func (e *MockExecutor) record(command string, arg []string) {
	e.Calls = append(e.Calls, strings.TrimSpace(command+" "+strings.Join(arg, " ")))
}

// Missing returns a LookPath mock reporting the given tools as not installed
func Missing(tools ...string) func(string) (string, error) {
	return func(command string) (string, error) {
		for _, t := range tools {
			if t == command {
				return "", &exec.NotFoundError{Command: command}
			}
		}
		return "/usr/bin/" + command, nil
	}
}
