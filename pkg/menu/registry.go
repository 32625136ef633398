package menu

import (
	"fmt"
	"strings"
)

type StepKind int

const (
	StepNone StepKind = iota
	StepHelp
	StepClear
	StepBack
	StepExit
	StepEnter
	StepCommand
	StepUsage
	StepUnknown
)

func (k StepKind) String() string {
	return [...]string{"none", "help", "clear", "back", "exit", "enter", "command", "usage", "unknown"}[k]
}

// Step the outcome of resolving one input line in a mode
type Step struct {
	Kind StepKind
	// Next active mode once the step is done
	Next Mode
	// Command resolved leaf command for StepCommand, the parent for StepUsage
	Command    *Command
	Invocation Invocation
}

type Registry struct {
	tables map[Mode]*Table
}

func NewRegistry(tables ...*Table) *Registry {
	r := &Registry{tables: map[Mode]*Table{}}
	for _, t := range tables {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t *Table) {
	r.tables[t.Mode] = t
}

func (r *Registry) Table(m Mode) *Table {
	return r.tables[m]
}

// Resolve maps (mode, line) to the next step without side effects
func (r *Registry) Resolve(current Mode, line string) Step {
	inv := Tokenize(line)
	step := Step{Kind: StepNone, Next: current, Invocation: inv}

	switch inv.Verb {
	case "":
		return step
	case VerbHelp:
		step.Kind = StepHelp
		return step
	case VerbClear:
		step.Kind = StepClear
		return step
	case VerbExit:
		step.Kind = StepExit
		return step
	case VerbBack:
		if current == ModeMain {
			step.Kind = StepHelp
			return step
		}
		step.Kind = StepBack
		step.Next = ModeMain
		return step
	}

	table := r.tables[current]
	if table == nil {
		step.Kind = StepUnknown
		return step
	}
	cmd := table.Lookup(inv.Verb)
	if cmd == nil {
		step.Kind = StepUnknown
		return step
	}

	if cmd.Enter != "" {
		if _, ok := r.tables[cmd.Enter]; !ok {
			step.Kind = StepUnknown
			return step
		}
		step.Kind = StepEnter
		step.Next = cmd.Enter
		step.Command = cmd
		return step
	}

	leaf := cmd
	if len(cmd.Subs) > 0 {
		sub := cmd.sub(strings.ToLower(inv.Arg(0)))
		if sub == nil {
			step.Kind = StepUsage
			step.Command = cmd
			return step
		}
		leaf = sub
		inv.Args = inv.Args[1:]
		step.Invocation = inv
	}
	if len(inv.Args) < leaf.MinArgs {
		step.Kind = StepUsage
		step.Command = cmd
		if leaf != cmd {
			step.Command = &Command{Verb: cmd.Verb, Usage: cmd.Verb + " " + leaf.UsageLine()}
		}
		return step
	}

	step.Kind = StepCommand
	step.Command = leaf
	return step
}

// UnknownMessage diagnostic for a verb missing from the active table
func UnknownMessage(current Mode, verb string) string {
	if current == ModeMain {
		return fmt.Sprintf("unknown menu: %s", verb)
	}
	return fmt.Sprintf("unrecognized command: %s", verb)
}
