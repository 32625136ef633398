package console

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/carina-io/nasconsole/pkg/menu"
)

const zpoolCmd = "zpool"

// operands must not be mistaken for tool flags
var operandRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:@-]*$`)

func (c *Console) poolTable() *menu.Table {
	tools := []string{zpoolCmd}
	return &menu.Table{
		Mode:  menu.ModePool,
		Title: "Pool menu",
		Commands: []*menu.Command{
			{
				Verb:    "pool",
				Usage:   "pool list|status|import|export|scrub [args]",
				Summary: "Pool administration",
				Subs: []*menu.Command{
					{Verb: "list", Tools: tools, Run: c.poolList},
					{Verb: "status", Usage: "status [pool]", Tools: tools, Run: c.poolStatus},
					{Verb: "import", Usage: "import [pool]", Tools: tools, Run: c.poolImport},
					{Verb: "export", Usage: "export <pool>", MinArgs: 1, Tools: tools, Run: c.poolExport},
					{Verb: "scrub", Usage: "scrub <pool> [stop]", MinArgs: 1, Tools: tools, Run: c.poolScrub},
				},
			},
			{Verb: "perf", Usage: "perf <pool> <interval> <count>", MinArgs: 3, Summary: "Live pool I/O statistics", Tools: tools, Run: c.poolPerf},
		},
	}
}

func checkOperand(usage, value string) error {
	if !operandRegexp.MatchString(value) {
		return &UsageError{Usage: usage, Reason: fmt.Sprintf("invalid name %q", value)}
	}
	return nil
}

func (c *Console) poolList(_ context.Context, _ menu.Invocation) error {
	return c.tool(zpoolCmd, "list")
}

func (c *Console) poolStatus(_ context.Context, inv menu.Invocation) error {
	args := []string{"status"}
	if pool := inv.Arg(0); pool != "" {
		if err := checkOperand("pool status [pool]", pool); err != nil {
			return err
		}
		args = append(args, pool)
	}
	return c.tool(zpoolCmd, args...)
}

func (c *Console) poolImport(_ context.Context, inv menu.Invocation) error {
	args := []string{"import"}
	if pool := inv.Arg(0); pool != "" {
		if err := checkOperand("pool import [pool]", pool); err != nil {
			return err
		}
		args = append(args, pool)
	}
	return c.tool(zpoolCmd, args...)
}

func (c *Console) poolExport(_ context.Context, inv menu.Invocation) error {
	pool := inv.Arg(0)
	if err := checkOperand("pool export <pool>", pool); err != nil {
		return err
	}
	c.printf("Pool %s will be exported and its datasets unmounted.\n", pool)
	if err := c.Confirm(confirmPrompt); err != nil {
		return err
	}
	if err := c.tool(zpoolCmd, "export", pool); err != nil {
		return err
	}
	c.printf("Pool %s exported.\n", pool)
	return nil
}

func (c *Console) poolScrub(_ context.Context, inv menu.Invocation) error {
	const usage = "pool scrub <pool> [stop]"
	pool := inv.Arg(0)
	if err := checkOperand(usage, pool); err != nil {
		return err
	}
	switch inv.Arg(1) {
	case "":
		if err := c.tool(zpoolCmd, "scrub", pool); err != nil {
			return err
		}
		c.printf("Scrub of %s started.\n", pool)
	case "stop":
		if err := c.tool(zpoolCmd, "scrub", "-s", pool); err != nil {
			return err
		}
		c.printf("Scrub of %s stopped.\n", pool)
	default:
		return &UsageError{Usage: usage}
	}
	return nil
}

func (c *Console) poolPerf(_ context.Context, inv menu.Invocation) error {
	const usage = "perf <pool> <interval> <count>"
	pool := inv.Arg(0)
	if err := checkOperand(usage, pool); err != nil {
		return err
	}
	for _, n := range inv.Args[1:3] {
		if v, err := strconv.Atoi(n); err != nil || v <= 0 {
			return &UsageError{Usage: usage, Reason: fmt.Sprintf("%q is not a positive number", n)}
		}
	}
	return c.interactive(zpoolCmd, "iostat", "-v", pool, inv.Args[1], inv.Args[2])
}
