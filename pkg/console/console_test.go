package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carina-io/nasconsole/pkg/configuration"
	"github.com/carina-io/nasconsole/pkg/devicemanager/types"
	"github.com/carina-io/nasconsole/pkg/hardware"
	"github.com/carina-io/nasconsole/pkg/menu"
	"github.com/carina-io/nasconsole/pkg/netconfig"
	"github.com/carina-io/nasconsole/utils/exec"
	exectest "github.com/carina-io/nasconsole/utils/exec/test"
)

const interfacesDoc = `auto lo
iface lo inet loopback

auto eth0
iface eth0 inet static
    address 192.168.1.10
    netmask 255.255.255.0
    gateway 192.168.1.1
`

type fakeInventory struct {
	all, unused, details []*types.DiskRecord
	err                  error
}

func (f *fakeInventory) AllDisks() ([]*types.DiskRecord, error)    { return f.all, f.err }
func (f *fakeInventory) UnusedDisks() ([]*types.DiskRecord, error) { return f.unused, f.err }
func (f *fakeInventory) DiskDetails() ([]*types.DiskRecord, error) { return f.details, f.err }

type fakeHardware struct{}

func (fakeHardware) CPU() (*hardware.CPUSummary, error) {
	return &hardware.CPUSummary{ModelName: "AMD EPYC 7302P", Vendor: "AuthenticAMD", Sockets: 1, Cores: 16, Threads: 32, MHz: 3000}, nil
}

func (fakeHardware) Memory() (*hardware.MemorySummary, error) {
	return &hardware.MemorySummary{Total: 64 << 30, Available: 48 << 30, SwapTotal: 2 << 30, SwapFree: 2 << 30}, nil
}

func (fakeHardware) LoadAverage() (*procfs.LoadAvg, error) {
	return &procfs.LoadAvg{Load1: 0.5, Load5: 0.25, Load15: 0.125}, nil
}

type harness struct {
	console   *Console
	out       *bytes.Buffer
	executor  *exectest.MockExecutor
	inventory *fakeInventory
	path      string
}

func newHarness(t *testing.T, input string) *harness {
	dir := t.TempDir()
	path := filepath.Join(dir, "interfaces")
	require.NoError(t, os.WriteFile(path, []byte(interfacesDoc), 0644))

	cfg := &configuration.Config{
		InterfacesFile: path,
		NetworkService: "networking",
		CLIUser:        "cli",
		PingCount:      4,
		CommandTimeout: time.Second,
		Services: map[string][]string{
			"network":   {"networking"},
			"sharing":   {"smbd", "nmbd"},
			"ssh":       {"ssh"},
			"webserver": {"nginx"},
		},
	}
	h := &harness{
		out:      &bytes.Buffer{},
		executor: &exectest.MockExecutor{},
		inventory: &fakeInventory{
			all: []*types.DiskRecord{
				{Name: "sdb", BusLocation: "2:0:1:0", WWN: "0x5000c500a1b2c3d4", Size: 1 << 40, Role: types.RoleDataInUse},
				{Name: "sdc", Size: 2 << 40, Role: types.RoleDataUnused},
			},
			unused: []*types.DiskRecord{{Name: "sdc", Size: 2 << 40, Model: "ST2000", Role: types.RoleDataUnused}},
		},
		path: path,
	}
	editor := &netconfig.Editor{
		Path:     path,
		Service:  cfg.NetworkService,
		Executor: h.executor,
		Out:      h.out,
	}
	h.console = New(Options{
		Config:    cfg,
		Executor:  h.executor,
		Inventory: h.inventory,
		Hardware:  fakeHardware{},
		Editor:    editor,
		Reader:    NewBufferedReader(strings.NewReader(input), h.out, ""),
		Out:       h.out,
	})
	return h
}

func (h *harness) run(t *testing.T) string {
	require.NoError(t, h.console.Run(context.Background()))
	return h.out.String()
}

func (h *harness) backups(t *testing.T) []string {
	matches, err := filepath.Glob(h.path + ".backup.*")
	require.NoError(t, err)
	return matches
}

func TestUnknownMenuKeepsMainPrompt(t *testing.T) {
	h := newHarness(t, "foobar\n")
	out := h.run(t)

	assert.Contains(t, out, "unknown menu: foobar\n")
	assert.Equal(t, menu.ModeMain, h.console.Mode())
	assert.True(t, strings.HasSuffix(out, "main>> unknown menu: foobar\nmain>> \n"), out)
	assert.NotContains(t, out, "Error:")
}

func TestDiskUnusedThenExit(t *testing.T) {
	h := newHarness(t, "disk\nunused\nback\nexit\nthis line is never read\n")
	out := h.run(t)

	assert.Contains(t, out, "disk>> ")
	assert.Contains(t, out, "Unused disks")
	assert.Contains(t, out, "sdc")
	assert.NotContains(t, out, "sdb")
	assert.Equal(t, menu.ModeMain, h.console.Mode())
	assert.NotContains(t, out, "unrecognized command")
}

func TestEmptyLinesAreIgnored(t *testing.T) {
	h := newHarness(t, "\n   \n")
	before := h.run(t)
	assert.Equal(t, 3, strings.Count(before, "main>> "))
	assert.NotContains(t, before, "unknown")
}

func TestCrossCuttingVerbs(t *testing.T) {
	h := newHarness(t, "DISK\nhelp\nclear\nformat sdb\nback\nback\n")
	out := h.run(t)

	assert.Contains(t, out, clearScreen)
	assert.Contains(t, out, "Return to the main menu")
	assert.Contains(t, out, "unrecognized command: format")
	// back from main only shows the help again
	assert.Equal(t, menu.ModeMain, h.console.Mode())
	assert.Equal(t, 3, strings.Count(out, "NAS console"))
}

func TestDiskAllShowsPartialRecords(t *testing.T) {
	h := newHarness(t, "disk\nall\n")
	out := h.run(t)
	assert.Contains(t, out, "2:0:1:0")
	assert.Contains(t, out, "1.0 TiB")
	assert.Contains(t, out, "data-unused")
	assert.Contains(t, out, "sdc")
}

func TestDiskInfoPartitions(t *testing.T) {
	h := newHarness(t, "disk\ninfo\n")
	h.inventory.details = []*types.DiskRecord{
		{Name: "sdb", Model: "ST1000NM0033", Size: 1 << 40, Partitions: []*types.PartitionRecord{
			{Name: "sdb1", MountPoint: "/srv", Used: 45, Total: 100},
			{Name: "sdb2"},
		}},
		{Name: "sdc", Size: 2 << 40},
	}
	out := h.run(t)

	assert.Contains(t, out, "PARTITIONS")
	assert.Contains(t, out, "sdb1 /srv 45%, sdb2")
	assert.Empty(t, h.executor.Calls)
}

func TestDiskInfoWithoutPartitions(t *testing.T) {
	h := newHarness(t, "disk\ninfo\n")
	h.inventory.details = []*types.DiskRecord{{Name: "sdc", Size: 2 << 40}}
	out := h.run(t)

	assert.Contains(t, out, "TEMP")
	assert.NotContains(t, out, "PARTITIONS")
}

func TestDiskListingFailure(t *testing.T) {
	h := newHarness(t, "disk\nall\ninfo\n")
	h.inventory.err = &exec.CommandError{Command: "lsblk", Output: "lsblk: failed to access sysfs directory", Status: 32}
	out := h.run(t)
	assert.Equal(t, 2, strings.Count(out, "lsblk: failed to access sysfs directory\n"))
	assert.Equal(t, menu.ModeDisk, h.console.Mode())
}

func TestMissingDependency(t *testing.T) {
	h := newHarness(t, "pool\npool list\n")
	h.executor.MockLookPath = exectest.Missing("zpool")
	out := h.run(t)

	assert.Contains(t, out, "missing dependency: zpool\n")
	assert.Empty(t, h.executor.Calls)
	assert.Equal(t, menu.ModePool, h.console.Mode())
}

func TestUsageDiagnostics(t *testing.T) {
	h := newHarness(t, "pool\npool\npool destroy tank\npool export\nperf tank x 5\n")
	out := h.run(t)

	assert.Equal(t, 2, strings.Count(out, "usage: pool list|status|import|export|scrub [args]\n"))
	assert.Contains(t, out, "pool>> usage: pool export <pool>\n")
	assert.Contains(t, out, `"x" is not a positive number (usage: perf <pool> <interval> <count>)`)
	assert.Empty(t, h.executor.Calls)
}

func TestToolFailureShownVerbatim(t *testing.T) {
	h := newHarness(t, "pool\npool status nope\n")
	h.executor.MockExecuteCommandWithTimeout = func(timeout time.Duration, command string, arg ...string) (string, error) {
		return "cannot open 'nope': no such pool", &exec.CommandError{Command: "zpool status nope", Output: "cannot open 'nope': no such pool", Status: 1}
	}
	out := h.run(t)
	assert.Contains(t, out, "cannot open 'nope': no such pool\n")
	assert.Equal(t, []string{"zpool status nope"}, h.executor.Calls)
}

func TestPoolExportConfirmation(t *testing.T) {
	h := newHarness(t, "pool\npool export tank\nn\npool export tank\nyes\n")
	out := h.run(t)

	assert.Contains(t, out, confirmPrompt)
	assert.Contains(t, out, "Operation cancelled.\n")
	assert.Equal(t, []string{"zpool export tank"}, h.executor.Calls)
	assert.Contains(t, out, "Pool tank exported.")
}

func TestPoolCommands(t *testing.T) {
	h := newHarness(t, "pool\npool list\npool scrub tank\npool scrub tank stop\npool import\nperf tank 1 5\npool status -v\n")
	out := h.run(t)
	assert.Equal(t, []string{
		"zpool list",
		"zpool scrub tank",
		"zpool scrub -s tank",
		"zpool import",
		"zpool iostat -v tank 1 5",
	}, h.executor.Calls)
	assert.Contains(t, out, `invalid name "-v"`)
}

func TestNicEditWizard(t *testing.T) {
	h := newHarness(t, "network\nnic edit eth0\n192.168.1.50\n\n\n8.8.8.8\ny\n")
	out := h.run(t)

	assert.Contains(t, out, "IP address [192.168.1.10]: ")
	assert.Contains(t, out, "    address 192.168.1.50\n")
	assert.Contains(t, out, "Service networking restarted")
	assert.Len(t, h.backups(t), 1)
	assert.Equal(t, []string{"systemctl restart networking"}, h.executor.Calls)

	data, err := os.ReadFile(h.path)
	require.NoError(t, err)
	doc := netconfig.Parse(data)
	require.Len(t, doc.ActiveIfaces("eth0"), 1)
	e, ok := doc.Entry("eth0")
	require.True(t, ok)
	assert.Equal(t, &netconfig.Entry{Interface: "eth0", Address: "192.168.1.50", Netmask: "255.255.255.0", Gateway: "192.168.1.1", DNSNameservers: "8.8.8.8"}, e)
}

func TestNicEditClearsGateway(t *testing.T) {
	h := newHarness(t, "network\nnic edit eth0\n\n\nnone\n\ny\n")
	out := h.run(t)

	assert.Contains(t, out, "Gateway (optional, none to remove) [192.168.1.1]: ")
	assert.Contains(t, out, "Service networking restarted")

	data, err := os.ReadFile(h.path)
	require.NoError(t, err)
	e, ok := netconfig.Parse(data).Entry("eth0")
	require.True(t, ok)
	assert.Equal(t, &netconfig.Entry{Interface: "eth0", Address: "192.168.1.10", Netmask: "255.255.255.0"}, e)
	assert.Contains(t, string(data), "#     gateway 192.168.1.1\n")
}

func TestNicEditDeclined(t *testing.T) {
	h := newHarness(t, "network\nnic edit eth0\n192.168.1.50\n\n\n\nno\n")
	out := h.run(t)

	assert.Contains(t, out, "Operation cancelled.\n")
	data, err := os.ReadFile(h.path)
	require.NoError(t, err)
	assert.Equal(t, interfacesDoc, string(data))
	assert.Empty(t, h.backups(t))
	assert.Empty(t, h.executor.Calls)
}

func TestNicEditWithoutAddress(t *testing.T) {
	h := newHarness(t, "network\nnic edit eth1\n\n\n\n\n")
	out := h.run(t)

	assert.Contains(t, out, "Aborted: address and netmask are required, nothing was changed.")
	assert.NotContains(t, out, confirmPrompt)
	assert.Empty(t, h.backups(t))
}

func TestNicEditReloadFailure(t *testing.T) {
	h := newHarness(t, "network\nnic edit eth0\n\n\n\n\ny\n")
	h.executor.MockExecuteCommandWithTimeout = func(timeout time.Duration, command string, arg ...string) (string, error) {
		return "", &exec.CommandError{Command: "systemctl restart networking", Output: "Job for networking.service failed.", Status: 1}
	}
	out := h.run(t)

	assert.Contains(t, out, "written to "+h.path)
	assert.Contains(t, out, "Reloading networking failed")
	assert.Contains(t, out, "Job for networking.service failed.")
	assert.Len(t, h.backups(t), 1)
}

func TestNetworkCommands(t *testing.T) {
	h := newHarness(t, "network\nnic list\nnic set eth0 down\nnic set eth0 sideways\nnic show eth0\nnic show eth7\ngateway set 10.0.0.1\ngateway set nowhere\ngateway get\n")
	out := h.run(t)

	assert.Equal(t, []string{
		"ip -brief address show",
		"ip link set dev eth0 down",
		"ip route replace default via 10.0.0.1",
		"ip route show default",
	}, h.executor.Calls)
	assert.Contains(t, out, "usage: nic set <nic> up|down")
	assert.Contains(t, out, "iface eth0 inet static\n    address 192.168.1.10\n")
	assert.Contains(t, out, "No static configuration for eth7")
	assert.Contains(t, out, "No default gateway configured.")
	assert.Contains(t, out, "(usage: gateway set <ip>)")
}

func TestServiceCommands(t *testing.T) {
	h := newHarness(t, "service\nsharing restart\nSSH status\nwebserver reload\n")
	h.executor.MockExecuteCommandWithTimeout = func(timeout time.Duration, command string, arg ...string) (string, error) {
		if arg[0] == "status" {
			return "ssh.service - OpenBSD Secure Shell server\n   Active: inactive (dead)", &exec.CommandError{Command: "systemctl status", Status: 3}
		}
		return "", nil
	}
	out := h.run(t)

	assert.Equal(t, []string{
		"systemctl restart smbd nmbd",
		"systemctl status --no-pager ssh",
	}, h.executor.Calls)
	assert.Contains(t, out, "Service sharing: restart done.")
	assert.Contains(t, out, "Active: inactive (dead)")
	assert.Contains(t, out, "usage: webserver start|stop|restart|status")
}

func TestSystemCommands(t *testing.T) {
	h := newHarness(t, "system\nping 10.0.0.1\nping -f\nreboot\nn\nshutdown\ny\npassword set root\npassword set cli\ny\ntime set 2024-03-01 10:00:00\ntime zone Europe/Berlin\ntime ntp on\ntime\ntime set tomorrow\nuptime\n")
	h.executor.MockExecuteCommandWithTimeout = func(timeout time.Duration, command string, arg ...string) (string, error) {
		if command == "uptime" {
			return " 10:00:00 up 3 days,  2 users,  load average: 0.50, 0.25, 0.12", nil
		}
		return "", nil
	}
	out := h.run(t)

	assert.Equal(t, []string{
		"ping -c 4 10.0.0.1",
		"systemctl poweroff",
		"passwd cli",
		"timedatectl set-time 2024-03-01 10:00:00",
		"timedatectl set-timezone Europe/Berlin",
		"timedatectl set-ntp true",
		"timedatectl status",
		"uptime",
	}, h.executor.Calls)
	assert.Contains(t, out, `invalid host "-f"`)
	assert.Equal(t, 1, strings.Count(out, "Operation cancelled."))
	assert.Contains(t, out, "usage: password set cli")
	assert.Contains(t, out, `invalid time "tomorrow"`)
	assert.Contains(t, out, "Load average: 0.50 (1m) 0.25 (5m) 0.12 (15m)")
}

func TestHardwareCommands(t *testing.T) {
	h := newHarness(t, "hardware\nshow cpu\nshow memory\nshow disks\n")
	out := h.run(t)

	assert.Contains(t, out, "AMD EPYC 7302P")
	assert.Contains(t, out, "3000 MHz")
	assert.Contains(t, out, "64 GiB")
	assert.Contains(t, out, "16 GiB")
	assert.Contains(t, out, "usage: show cpu|memory")
}

func TestMessage(t *testing.T) {
	table := []struct {
		err error
		msg string
	}{
		{ErrDeclined, "Operation cancelled."},
		{&MissingToolError{Tool: "lsscsi"}, "missing dependency: lsscsi"},
		{&exec.NotFoundError{Command: "smartctl"}, "missing dependency: smartctl"},
		{&UnrecognizedError{Mode: menu.ModeSystem, Token: "format"}, "unrecognized command: format"},
		{&UnrecognizedError{Mode: menu.ModeMain, Token: "foobar"}, "unknown menu: foobar"},
		{&UsageError{Usage: "pool export <pool>"}, "usage: pool export <pool>"},
		{&UsageError{Usage: "ping <host>", Reason: `invalid host "-f"`}, `invalid host "-f" (usage: ping <host>)`},
		{&exec.CommandError{Command: "zpool list", Output: "no pools available"}, "no pools available"},
		{errors.New("boom"), "Error: boom"},
	}
	for _, e := range table {
		assert.Equal(t, e.msg, message(e.err))
	}
}
