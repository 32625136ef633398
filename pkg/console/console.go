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

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/prometheus/procfs"

	"github.com/carina-io/nasconsole/pkg/configuration"
	"github.com/carina-io/nasconsole/pkg/devicemanager/types"
	"github.com/carina-io/nasconsole/pkg/hardware"
	"github.com/carina-io/nasconsole/pkg/menu"
	"github.com/carina-io/nasconsole/pkg/netconfig"
	"github.com/carina-io/nasconsole/utils"
	"github.com/carina-io/nasconsole/utils/exec"
	"github.com/carina-io/nasconsole/utils/log"
)

// DiskInventory builds disk records from a fresh device snapshot per call
type DiskInventory interface {
	AllDisks() ([]*types.DiskRecord, error)
	UnusedDisks() ([]*types.DiskRecord, error)
	DiskDetails() ([]*types.DiskRecord, error)
}

type HardwareInfo interface {
	CPU() (*hardware.CPUSummary, error)
	Memory() (*hardware.MemorySummary, error)
	LoadAverage() (*procfs.LoadAvg, error)
}

type NetworkEditor interface {
	Current(name string) (*netconfig.Entry, error)
	Apply(ctx context.Context, req netconfig.Entry, confirm netconfig.Confirmer) (*netconfig.Result, error)
}

type Options struct {
	Config    *configuration.Config
	Executor  exec.Executor
	Inventory DiskInventory
	// Hardware nil when procfs is not available
	Hardware HardwareInfo
	Editor   NetworkEditor
	Reader   LineReader
	Out      io.Writer
}

// Console the read-eval loop. The active mode is the only state carried
// between lines.
type Console struct {
	config    *configuration.Config
	executor  exec.Executor
	inventory DiskInventory
	hardware  HardwareInfo
	editor    NetworkEditor
	reader    LineReader
	out       io.Writer

	registry *menu.Registry
	mode     menu.Mode
}

func New(opt Options) *Console {
	c := &Console{
		config:    opt.Config,
		executor:  opt.Executor,
		inventory: opt.Inventory,
		hardware:  opt.Hardware,
		editor:    opt.Editor,
		reader:    opt.Reader,
		out:       opt.Out,
		mode:      menu.ModeMain,
	}
	c.registry = menu.NewRegistry(c.tables()...)
	return c
}

func (c *Console) Mode() menu.Mode {
	return c.mode
}

// Run blocks until exit or the end of input, both are a normal return
func (c *Console) Run(ctx context.Context) error {
	c.reader.SetPrompt(c.mode.Prompt())
	renderHelp(c.out, c.registry.Table(c.mode))

	for {
		line, err := c.reader.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				log.Info("input closed, leaving the console")
				fmt.Fprintln(c.out)
				return nil
			}
			return err
		}
		if exit := c.Execute(ctx, line); exit {
			log.Info("exit requested")
			return nil
		}
	}
}

// Execute processes one input line and reports whether the console should exit
func (c *Console) Execute(ctx context.Context, line string) bool {
	step := c.registry.Resolve(c.mode, line)
	if step.Kind != menu.StepNone {
		log.Debugf("mode %s: %q -> %s", c.mode, strings.TrimSpace(line), step.Kind)
	}

	switch step.Kind {
	case menu.StepNone:
	case menu.StepExit:
		return true
	case menu.StepHelp:
		renderHelp(c.out, c.registry.Table(c.mode))
	case menu.StepClear:
		fmt.Fprint(c.out, clearScreen)
	case menu.StepBack, menu.StepEnter:
		c.enter(step.Next)
	case menu.StepUsage:
		c.report(&UsageError{Usage: step.Command.UsageLine()})
	case menu.StepUnknown:
		c.report(&UnrecognizedError{Mode: c.mode, Token: step.Invocation.Verb})
	case menu.StepCommand:
		if err := c.run(ctx, step.Command, step.Invocation); err != nil {
			c.report(err)
		}
	}
	return false
}

func (c *Console) enter(mode menu.Mode) {
	c.mode = mode
	c.reader.SetPrompt(mode.Prompt())
	fmt.Fprint(c.out, clearScreen)
	renderHelp(c.out, c.registry.Table(mode))
}

func (c *Console) run(ctx context.Context, cmd *menu.Command, inv menu.Invocation) error {
	for _, tool := range cmd.Tools {
		if _, err := c.executor.LookPath(tool); err != nil {
			return &MissingToolError{Tool: tool}
		}
	}
	return cmd.Run(ctx, inv)
}

func (c *Console) report(err error) {
	log.Warnf("mode %s: %s", c.mode, err.Error())
	fmt.Fprintln(c.out, message(err))
}

func (c *Console) printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// ask reads one answer with its own prompt, the mode prompt is restored after
func (c *Console) ask(prompt string) (string, error) {
	c.reader.SetPrompt(prompt)
	defer c.reader.SetPrompt(c.mode.Prompt())

	answer, err := c.reader.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// askDefault shows the current value in brackets, an empty answer keeps it
func (c *Console) askDefault(label, current string) (string, error) {
	prompt := label + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, current)
	}
	return c.ask(prompt)
}

// Confirm implements netconfig.Confirmer, anything but y/yes declines
func (c *Console) Confirm(message string) error {
	answer, err := c.ask(message)
	if err != nil {
		log.Debugf("confirmation aborted: %v", err)
		return ErrDeclined
	}
	if !utils.Affirmative(answer) {
		return ErrDeclined
	}
	return nil
}

// tool runs a non-interactive host tool under the configured timeout and prints its output
func (c *Console) tool(command string, arg ...string) error {
	out, err := c.executor.ExecuteCommandWithTimeout(c.config.CommandTimeout, command, arg...)
	if err != nil {
		return err
	}
	if out != "" {
		c.println(out)
	}
	return nil
}

// interactive hands the terminal to the tool until it exits
func (c *Console) interactive(command string, arg ...string) error {
	return c.executor.ExecuteCommandInteractive(command, arg...)
}
