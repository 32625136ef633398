package console

import (
	"context"
	"strings"

	"github.com/carina-io/nasconsole/pkg/menu"
	"github.com/carina-io/nasconsole/utils/exec"
)

// systemctl status exits 3 for a stopped unit
const unitNotActive = 3

func (c *Console) serviceTable() *menu.Table {
	t := &menu.Table{Mode: menu.ModeService, Title: "Service menu"}
	for _, name := range c.config.ServiceNames() {
		units := c.config.Units(name)
		cmd := &menu.Command{
			Verb:    name,
			Usage:   name + " start|stop|restart|status",
			Summary: strings.Join(units, ", "),
		}
		for _, action := range []string{"start", "stop", "restart", "status"} {
			cmd.Subs = append(cmd.Subs, &menu.Command{
				Verb:  action,
				Tools: []string{systemctlCmd},
				Run:   c.serviceAction(name, action, units),
			})
		}
		t.Commands = append(t.Commands, cmd)
	}
	return t
}

func (c *Console) serviceAction(name, action string, units []string) menu.Handler {
	return func(_ context.Context, _ menu.Invocation) error {
		if action == "status" {
			args := append([]string{"status", "--no-pager"}, units...)
			out, err := c.executor.ExecuteCommandWithTimeout(c.config.CommandTimeout, systemctlCmd, args...)
			if status, ok := exec.ExitStatus(err); err != nil && !(ok && status == unitNotActive) {
				return err
			}
			c.println(out)
			return nil
		}

		if err := c.tool(systemctlCmd, append([]string{action}, units...)...); err != nil {
			return err
		}
		c.printf("Service %s: %s done.\n", name, action)
		return nil
	}
}
