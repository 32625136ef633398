package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, Invocation) error { return nil }

func testRegistry() *Registry {
	return NewRegistry(
		&Table{Mode: ModeMain, Commands: []*Command{
			{Verb: "disk", Enter: ModeDisk},
			{Verb: "pool", Enter: ModePool},
			{Verb: "ghost", Enter: Mode("ghost")},
		}},
		&Table{Mode: ModeDisk, Commands: []*Command{
			{Verb: "all", Tools: []string{"lsblk"}, Run: noop},
			{Verb: "unused", Tools: []string{"lsblk"}, Run: noop},
		}},
		&Table{Mode: ModePool, Commands: []*Command{
			{Verb: "pool", Subs: []*Command{
				{Verb: "list", Run: noop},
				{Verb: "status", Usage: "status <pool>", MinArgs: 1, Run: noop},
			}},
			{Verb: "perf", Usage: "perf <pool> <interval> <count>", MinArgs: 3, Run: noop},
		}},
	)
}

func TestTokenize(t *testing.T) {
	inv := Tokenize("  Pool   STATUS tank  ")
	assert.Equal(t, "pool", inv.Verb)
	assert.Equal(t, []string{"STATUS", "tank"}, inv.Args)
	assert.Equal(t, "tank", inv.Arg(1))
	assert.Equal(t, "", inv.Arg(2))

	assert.Equal(t, "", Tokenize(" \t ").Verb)
}

func TestResolveCrossCutting(t *testing.T) {
	r := testRegistry()
	table := []struct {
		mode Mode
		line string
		kind StepKind
		next Mode
	}{
		{ModeMain, "", StepNone, ModeMain},
		{ModeDisk, "   ", StepNone, ModeDisk},
		{ModeDisk, "HELP", StepHelp, ModeDisk},
		{ModeDisk, "clear", StepClear, ModeDisk},
		{ModeDisk, "back", StepBack, ModeMain},
		{ModeMain, "back", StepHelp, ModeMain},
		{ModeDisk, "Exit", StepExit, ModeDisk},
		{ModeMain, "exit", StepExit, ModeMain},
	}
	for _, e := range table {
		step := r.Resolve(e.mode, e.line)
		assert.Equal(t, e.kind, step.Kind, "%s: %q", e.mode, e.line)
		assert.Equal(t, e.next, step.Next, "%s: %q", e.mode, e.line)
	}
}

func TestResolveEnter(t *testing.T) {
	r := testRegistry()

	step := r.Resolve(ModeMain, "Disk")
	assert.Equal(t, StepEnter, step.Kind)
	assert.Equal(t, ModeDisk, step.Next)

	// modes do not nest
	step = r.Resolve(ModeDisk, "pool")
	assert.Equal(t, StepUnknown, step.Kind)
	assert.Equal(t, ModeDisk, step.Next)

	step = r.Resolve(ModeMain, "ghost")
	assert.Equal(t, StepUnknown, step.Kind)
}

func TestResolveUnknown(t *testing.T) {
	r := testRegistry()

	step := r.Resolve(ModeMain, "foobar baz")
	assert.Equal(t, StepUnknown, step.Kind)
	assert.Equal(t, ModeMain, step.Next)
	assert.Equal(t, "unknown menu: foobar", UnknownMessage(ModeMain, step.Invocation.Verb))

	step = r.Resolve(ModeDisk, "format sdb")
	assert.Equal(t, StepUnknown, step.Kind)
	assert.Equal(t, "unrecognized command: format", UnknownMessage(ModeDisk, step.Invocation.Verb))
}

func TestResolveCommand(t *testing.T) {
	r := testRegistry()

	step := r.Resolve(ModeDisk, "unused")
	require.Equal(t, StepCommand, step.Kind)
	assert.Equal(t, "unused", step.Command.Verb)
	assert.Equal(t, []string{"lsblk"}, step.Command.Tools)

	step = r.Resolve(ModePool, "pool STATUS tank")
	require.Equal(t, StepCommand, step.Kind)
	assert.Equal(t, "status", step.Command.Verb)
	assert.Equal(t, []string{"tank"}, step.Invocation.Args)

	step = r.Resolve(ModePool, "perf tank 1 5")
	require.Equal(t, StepCommand, step.Kind)
	assert.Equal(t, []string{"tank", "1", "5"}, step.Invocation.Args)
}

func TestResolveUsage(t *testing.T) {
	r := testRegistry()
	table := []struct {
		line  string
		usage string
	}{
		{"pool", "pool list|status"},
		{"pool destroy tank", "pool list|status"},
		{"pool status", "pool status <pool>"},
		{"perf tank", "perf <pool> <interval> <count>"},
	}
	for _, e := range table {
		step := r.Resolve(ModePool, e.line)
		require.Equal(t, StepUsage, step.Kind, e.line)
		assert.Equal(t, e.usage, step.Command.UsageLine(), e.line)
		assert.Equal(t, ModePool, step.Next)
	}
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "main>> ", ModeMain.Prompt())
	assert.Equal(t, "network>> ", ModeNetwork.Prompt())
	assert.Equal(t, "usage", StepUsage.String())
}
