package exec

import (
	"errors"
	"fmt"

	utilexec "k8s.io/utils/exec"
)

// NotFoundError a required host tool is not installed
type NotFoundError struct {
	Command string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("executable %s not found in $PATH", e.Command)
}

// CommandError keeps the tool's own output so it can be shown verbatim
type CommandError struct {
	Command string
	Output  string
	Status  int
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitStatus returns the exit code carried by err, if any
func ExitStatus(err error) (int, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Status, cmdErr.Status >= 0
	}
	var exitErr utilexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus(), true
	}
	return 0, false
}

func exitStatus(err error) int {
	var exitErr utilexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus()
	}
	return -1
}
