package console

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/carina-io/nasconsole/pkg/menu"
	"github.com/carina-io/nasconsole/utils/log"
)

const (
	passwdCmd      = "passwd"
	pingCmd        = "ping"
	timedatectlCmd = "timedatectl"
	uptimeCmd      = "uptime"

	timeUsage = "time [status|set <YYYY-MM-DD HH:MM:SS>|zone <tz>|ntp on|off]"
)

var timezoneRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_+/-]*$`)

var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

func (c *Console) systemTable() *menu.Table {
	systemctl := []string{systemctlCmd}
	return &menu.Table{
		Mode:  menu.ModeSystem,
		Title: "System menu",
		Commands: []*menu.Command{
			{
				Verb:    "password",
				Usage:   "password set cli",
				Summary: "Change the console user's password",
				Subs: []*menu.Command{
					{Verb: "set", Usage: "set cli", MinArgs: 1, Tools: []string{passwdCmd}, Run: c.passwordSet},
				},
			},
			{Verb: "ping", Usage: "ping <host>", MinArgs: 1, Summary: "Check reachability of a host", Tools: []string{pingCmd}, Run: c.ping},
			{Verb: "reboot", Summary: "Restart the appliance", Tools: systemctl, Run: c.power("reboot", "The appliance will restart now.")},
			{Verb: "shutdown", Summary: "Power off the appliance", Tools: systemctl, Run: c.power("poweroff", "The appliance will power off now.")},
			{Verb: "time", Usage: timeUsage, Summary: "Clock, timezone and NTP", Tools: []string{timedatectlCmd}, Run: c.timeControl},
			{Verb: "uptime", Summary: "Uptime and load", Tools: []string{uptimeCmd}, Run: c.uptime},
		},
	}
}

func (c *Console) passwordSet(_ context.Context, inv menu.Invocation) error {
	if inv.Arg(0) != "cli" {
		return &UsageError{Usage: "password set cli"}
	}
	user := c.config.CLIUser
	c.printf("The password of user %s will be changed.\n", user)
	if err := c.Confirm(confirmPrompt); err != nil {
		return err
	}
	return c.interactive(passwdCmd, user)
}

func (c *Console) ping(_ context.Context, inv menu.Invocation) error {
	host := inv.Arg(0)
	if len(validation.IsValidIP(host)) > 0 && len(validation.IsDNS1123Subdomain(strings.ToLower(host))) > 0 {
		return &UsageError{Usage: "ping <host>", Reason: fmt.Sprintf("invalid host %q", host)}
	}
	return c.interactive(pingCmd, "-c", strconv.Itoa(c.config.PingCount), host)
}

func (c *Console) power(action, notice string) menu.Handler {
	return func(_ context.Context, _ menu.Invocation) error {
		c.println(notice)
		if err := c.Confirm(confirmPrompt); err != nil {
			return err
		}
		return c.tool(systemctlCmd, action)
	}
}

func (c *Console) timeControl(_ context.Context, inv menu.Invocation) error {
	switch strings.ToLower(inv.Arg(0)) {
	case "", "status":
		return c.tool(timedatectlCmd, "status")
	case "set":
		value := strings.Join(inv.Args[1:], " ")
		if !validTime(value) {
			return &UsageError{Usage: timeUsage, Reason: fmt.Sprintf("invalid time %q", value)}
		}
		if err := c.tool(timedatectlCmd, "set-time", value); err != nil {
			return err
		}
		c.printf("Clock set to %s.\n", value)
	case "zone":
		tz := inv.Arg(1)
		if !timezoneRegexp.MatchString(tz) {
			return &UsageError{Usage: timeUsage, Reason: fmt.Sprintf("invalid timezone %q", tz)}
		}
		if err := c.tool(timedatectlCmd, "set-timezone", tz); err != nil {
			return err
		}
		c.printf("Timezone set to %s.\n", tz)
	case "ntp":
		var enable string
		switch strings.ToLower(inv.Arg(1)) {
		case "on":
			enable = "true"
		case "off":
			enable = "false"
		default:
			return &UsageError{Usage: timeUsage}
		}
		if err := c.tool(timedatectlCmd, "set-ntp", enable); err != nil {
			return err
		}
		c.printf("NTP synchronization %s.\n", strings.ToLower(inv.Arg(1)))
	default:
		return &UsageError{Usage: timeUsage}
	}
	return nil
}

func validTime(value string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func (c *Console) uptime(_ context.Context, _ menu.Invocation) error {
	if err := c.tool(uptimeCmd); err != nil {
		return err
	}
	if c.hardware == nil {
		return nil
	}
	load, err := c.hardware.LoadAverage()
	if err != nil {
		log.Debugf("load average unavailable: %v", err)
		return nil
	}
	c.printf("Load average: %.2f (1m) %.2f (5m) %.2f (15m)\n", load.Load1, load.Load5, load.Load15)
	return nil
}
