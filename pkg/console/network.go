package console

import (
	"context"
	"fmt"
	"regexp"

	"github.com/carina-io/nasconsole/pkg/menu"
	"github.com/carina-io/nasconsole/pkg/netconfig"
	"github.com/carina-io/nasconsole/utils"
	"github.com/carina-io/nasconsole/utils/log"
)

const (
	ipCmd        = "ip"
	systemctlCmd = "systemctl"
)

var nicRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,15}$`)

func (c *Console) networkTable() *menu.Table {
	ip := []string{ipCmd}
	return &menu.Table{
		Mode:  menu.ModeNetwork,
		Title: "Network menu",
		Commands: []*menu.Command{
			{
				Verb:    "nic",
				Usage:   "nic list|set <nic> up|down|show <nic>|edit <nic>",
				Summary: "Interfaces, edit writes the permanent configuration",
				Subs: []*menu.Command{
					{Verb: "list", Tools: ip, Run: c.nicList},
					{Verb: "set", Usage: "set <nic> up|down", MinArgs: 2, Tools: ip, Run: c.nicSet},
					{Verb: "show", Usage: "show <nic>", MinArgs: 1, Run: c.nicShow},
					{Verb: "edit", Usage: "edit <nic>", MinArgs: 1, Tools: []string{systemctlCmd}, Run: c.nicEdit},
				},
			},
			{
				Verb:    "gateway",
				Usage:   "gateway get|set <ip>",
				Summary: "Default route",
				Subs: []*menu.Command{
					{Verb: "get", Tools: ip, Run: c.gatewayGet},
					{Verb: "set", Usage: "set <ip>", MinArgs: 1, Tools: ip, Run: c.gatewaySet},
				},
			},
		},
	}
}

func checkNic(usage, nic string) error {
	if !nicRegexp.MatchString(nic) {
		return &UsageError{Usage: usage, Reason: fmt.Sprintf("invalid interface name %q", nic)}
	}
	return nil
}

func (c *Console) nicList(_ context.Context, _ menu.Invocation) error {
	return c.tool(ipCmd, "-brief", "address", "show")
}

func (c *Console) nicSet(_ context.Context, inv menu.Invocation) error {
	const usage = "nic set <nic> up|down"
	nic, state := inv.Arg(0), inv.Arg(1)
	if err := checkNic(usage, nic); err != nil {
		return err
	}
	if state != "up" && state != "down" {
		return &UsageError{Usage: usage}
	}
	if err := c.tool(ipCmd, "link", "set", "dev", nic, state); err != nil {
		return err
	}
	c.printf("Interface %s is %s.\n", nic, state)
	return nil
}

func (c *Console) nicShow(_ context.Context, inv menu.Invocation) error {
	nic := inv.Arg(0)
	if err := checkNic("nic show <nic>", nic); err != nil {
		return err
	}
	current, err := c.editor.Current(nic)
	if err != nil {
		return err
	}
	if current == nil {
		c.printf("No static configuration for %s in %s.\n", nic, c.config.InterfacesFile)
		return nil
	}
	c.printf("%s", current.Render())
	return nil
}

// nicEdit asks for each field with the active value as default and applies the
// result through the editor
func (c *Console) nicEdit(ctx context.Context, inv menu.Invocation) error {
	nic := inv.Arg(0)
	if err := checkNic("nic edit <nic>", nic); err != nil {
		return err
	}
	current, err := c.editor.Current(nic)
	if err != nil {
		return err
	}
	if current == nil {
		current = &netconfig.Entry{Interface: nic}
	}

	c.printf("Permanent IPv4 configuration of %s, press enter to keep the value in brackets.\n", nic)
	req := netconfig.Entry{Interface: nic}
	fields := []struct {
		label   string
		current string
		value   *string
	}{
		{"IP address", current.Address, &req.Address},
		{"Netmask", current.Netmask, &req.Netmask},
		{"Gateway (optional, " + netconfig.ClearValue + " to remove)", current.Gateway, &req.Gateway},
		{"DNS servers (optional, space separated, " + netconfig.ClearValue + " to remove)", current.DNSNameservers, &req.DNSNameservers},
	}
	for _, f := range fields {
		answer, err := c.askDefault(f.label, f.current)
		if err != nil {
			return ErrDeclined
		}
		*f.value = utils.FirstNonEmpty(answer, f.current)
	}

	res, err := c.editor.Apply(ctx, req, c)
	if err != nil {
		return err
	}
	c.printf("Configuration of %s written to %s (backup %s).\n", nic, c.config.InterfacesFile, res.BackupPath)
	if res.ReloadErr != nil {
		c.printf("Reloading %s failed, the new configuration is not active yet:\n%s\n", c.config.NetworkService, message(res.ReloadErr))
		return nil
	}
	log.Infof("interface %s reconfigured, %d old blocks superseded", nic, res.Superseded)
	c.printf("Service %s restarted, configuration active.\n", c.config.NetworkService)
	return nil
}

func (c *Console) gatewayGet(_ context.Context, _ menu.Invocation) error {
	out, err := c.executor.ExecuteCommandWithTimeout(c.config.CommandTimeout, ipCmd, "route", "show", "default")
	if err != nil {
		return err
	}
	if out == "" {
		c.println("No default gateway configured.")
		return nil
	}
	c.println(out)
	return nil
}

func (c *Console) gatewaySet(_ context.Context, inv menu.Invocation) error {
	gw := inv.Arg(0)
	if err := netconfig.ValidateIPv4("gateway", gw); err != nil {
		return &UsageError{Usage: "gateway set <ip>", Reason: err.Error()}
	}
	if err := c.tool(ipCmd, "route", "replace", "default", "via", gw); err != nil {
		return err
	}
	c.printf("Default gateway set to %s until the next reboot, use nic edit to make it permanent.\n", gw)
	return nil
}
