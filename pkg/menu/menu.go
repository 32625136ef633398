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

package menu

import (
	"context"
	"fmt"
	"strings"
)

type Mode string

const (
	ModeMain     Mode = "main"
	ModeDisk     Mode = "disk"
	ModePool     Mode = "pool"
	ModeHardware Mode = "hardware"
	ModeNetwork  Mode = "network"
	ModeService  Mode = "service"
	ModeSystem   Mode = "system"
)

// verbs understood in every mode
const (
	VerbHelp  = "help"
	VerbClear = "clear"
	VerbBack  = "back"
	VerbExit  = "exit"
)

// Prompt shown while the mode is active
func (m Mode) Prompt() string {
	return string(m) + ">> "
}

// Invocation one tokenized input line
type Invocation struct {
	Line string
	// Verb lower cased
	Verb string
	Args []string
}

func Tokenize(line string) Invocation {
	fields := strings.Fields(line)
	inv := Invocation{Line: line}
	if len(fields) == 0 {
		return inv
	}
	inv.Verb = strings.ToLower(fields[0])
	inv.Args = fields[1:]
	return inv
}

// Arg the i-th argument or an empty string
func (i Invocation) Arg(n int) string {
	if n < len(i.Args) {
		return i.Args[n]
	}
	return ""
}

type Handler func(ctx context.Context, inv Invocation) error

// Command a verb of a mode table. A command with Subs takes a required sub-verb,
// a command with Enter switches to another mode.
type Command struct {
	Verb    string
	Usage   string
	Summary string
	// Tools host executables that must be installed
	Tools []string
	// MinArgs arguments required after the verb (and sub-verb)
	MinArgs int
	Subs    []*Command
	Enter   Mode
	Run     Handler
}

func (c *Command) UsageLine() string {
	if c.Usage != "" {
		return c.Usage
	}
	if len(c.Subs) == 0 {
		return c.Verb
	}
	verbs := make([]string, 0, len(c.Subs))
	for _, s := range c.Subs {
		verbs = append(verbs, s.Verb)
	}
	return fmt.Sprintf("%s %s", c.Verb, strings.Join(verbs, "|"))
}

func (c *Command) sub(verb string) *Command {
	for _, s := range c.Subs {
		if s.Verb == verb {
			return s
		}
	}
	return nil
}

// Table the closed command table of one mode, in registration order
type Table struct {
	Mode     Mode
	Title    string
	Commands []*Command
}

func (t *Table) Lookup(verb string) *Command {
	for _, c := range t.Commands {
		if c.Verb == verb {
			return c
		}
	}
	return nil
}
