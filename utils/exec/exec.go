/*
   Copyright @ 2021 bocloud <fushaosong@beyondcent.com>.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/carina-io/nasconsole/utils/log"
	utilexec "k8s.io/utils/exec"
)

// Executor is the main interface for all the exec commands
type Executor interface {
	// LookPath reports whether a host tool is installed
	LookPath(command string) (string, error)
	ExecuteCommandWithOutput(command string, arg ...string) (string, error)
	ExecuteCommandWithCombinedOutput(command string, arg ...string) (string, error)
	ExecuteCommandWithTimeout(timeout time.Duration, command string, arg ...string) (string, error)
	// ExecuteCommandInteractive attaches the console's stdin/stdout, used for
	// passwd and streaming tools such as ping or zpool iostat
	ExecuteCommandInteractive(command string, arg ...string) error
}

// CommandExecutor is the type of the Executor
type CommandExecutor struct {
	exec   utilexec.Interface
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewCommandExecutor() *CommandExecutor {
	return NewCommandExecutorWith(utilexec.New())
}

// NewCommandExecutorWith wraps another exec implementation, tests pass a FakeExec
func NewCommandExecutorWith(e utilexec.Interface) *CommandExecutor {
	return &CommandExecutor{
		exec:   e,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (c *CommandExecutor) LookPath(command string) (string, error) {
	path, err := c.exec.LookPath(command)
	if err != nil {
		log.Debugf("tool %s not found: %v", command, err)
		return "", &NotFoundError{Command: command}
	}
	return path, nil
}

// ExecuteCommandWithOutput executes a command with output
func (c *CommandExecutor) ExecuteCommandWithOutput(command string, arg ...string) (string, error) {
	logCommand(command, arg...)
	cmd := c.exec.Command(command, arg...)
	return runCommandWithOutput(cmd, command, arg, false)
}

// ExecuteCommandWithCombinedOutput executes a command with combined output
func (c *CommandExecutor) ExecuteCommandWithCombinedOutput(command string, arg ...string) (string, error) {
	logCommand(command, arg...)
	cmd := c.exec.Command(command, arg...)
	return runCommandWithOutput(cmd, command, arg, true)
}

// ExecuteCommandWithTimeout starts a process and wait for its completion with timeout.
func (c *CommandExecutor) ExecuteCommandWithTimeout(timeout time.Duration, command string, arg ...string) (string, error) {
	if timeout <= 0 {
		return c.ExecuteCommandWithCombinedOutput(command, arg...)
	}
	logCommand(command, arg...)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := c.exec.CommandContext(ctx, command, arg...)
	out, err := runCommandWithOutput(cmd, command, arg, true)
	if ctx.Err() == context.DeadlineExceeded {
		log.Warnf("timeout waiting for the command %s to return", command)
		return out, fmt.Errorf("timeout waiting for the command %s to return after %s", command, timeout)
	}
	return out, err
}

func (c *CommandExecutor) ExecuteCommandInteractive(command string, arg ...string) error {
	logCommand(command, arg...)
	cmd := c.exec.Command(command, arg...)
	cmd.SetStdin(c.Stdin)
	cmd.SetStdout(c.Stdout)
	cmd.SetStderr(c.Stderr)
	if err := cmd.Run(); err != nil {
		return &CommandError{Command: commandLine(command, arg), Status: exitStatus(err), Err: err}
	}
	return nil
}

func runCommandWithOutput(cmd utilexec.Cmd, command string, arg []string, combinedOutput bool) (string, error) {
	var output []byte
	var err error

	if combinedOutput {
		output, err = cmd.CombinedOutput()
	} else {
		output, err = cmd.Output()
		if err != nil {
			if stderr := assertErrorType(err); stderr != "" {
				output = append(output, []byte(stderr)...)
			}
		}
	}

	out := strings.TrimSpace(string(output))
	if err != nil {
		log.Debugf("command %s failed: %v", command, err)
		return out, &CommandError{Command: commandLine(command, arg), Output: out, Status: exitStatus(err), Err: err}
	}
	return out, nil
}

func commandLine(command string, arg []string) string {
	var b bytes.Buffer
	b.WriteString(command)
	for _, a := range arg {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}

func logCommand(command string, arg ...string) {
	log.Debugf("Running command: %s %s", command, strings.Join(arg, " "))
}

func assertErrorType(err error) string {
	switch errType := err.(type) {
	case *utilexec.ExitErrorWrapper:
		return string(errType.Stderr)
	}
	return ""
}
