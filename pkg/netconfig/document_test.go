package netconfig

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestParseRoundTrip(t *testing.T) {
	for _, name := range []string{"interfaces", "interfaces.noeth2"} {
		data := readFixture(t, name)
		assert.Equal(t, string(data), Parse(data).String(), name)
	}
	assert.Equal(t, "auto lo", Parse([]byte("auto lo")).String())
	assert.Equal(t, "", Parse(nil).String())
}

func TestParseStanzas(t *testing.T) {
	doc := Parse(readFixture(t, "interfaces"))

	ifaces := doc.ActiveIfaces("eth0")
	require.Len(t, ifaces, 2)
	assert.Equal(t, []string{"eth0", "inet", "static"}, ifaces[0].Args)
	assert.Len(t, ifaces[0].Lines, 5)
	assert.Equal(t, []string{"eth0", "inet6", "auto"}, ifaces[1].Args)

	e, ok := doc.Entry("eth0")
	require.True(t, ok)
	assert.Equal(t, &Entry{
		Interface:      "eth0",
		Address:        "192.168.1.10",
		Netmask:        "255.255.255.0",
		Gateway:        "192.168.1.1",
		DNSNameservers: "192.168.1.1 8.8.8.8",
	}, e)

	_, ok = doc.Entry("eth2")
	assert.False(t, ok)
}

func TestEntryFromCIDRAddress(t *testing.T) {
	doc := Parse([]byte("iface br0 inet static\n\taddress 10.0.0.5/16\n"))
	e, ok := doc.Entry("br0")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5", e.Address)
	assert.Equal(t, "255.255.0.0", e.Netmask)
}

func TestDeactivate(t *testing.T) {
	doc := Parse(readFixture(t, "interfaces"))

	// auto lo eth0, iface eth0 inet, iface eth0 inet6
	assert.Equal(t, 3, doc.Deactivate("eth0"))
	assert.Empty(t, doc.ActiveIfaces("eth0"))

	text := doc.String()
	assert.Contains(t, text, "# auto lo eth0\nauto lo\n")
	assert.Contains(t, text, "# iface eth0 inet static\n#     address 192.168.1.10\n")
	assert.Contains(t, text, "# iface eth0 inet6 auto\n")
	// other interfaces untouched
	assert.Contains(t, text, "\nallow-hotplug eth1\niface eth1 inet dhcp\n")
	assert.Len(t, doc.ActiveIfaces("lo"), 1)

	// nothing left to comment
	assert.Equal(t, 0, doc.Deactivate("eth0"))
	assert.Equal(t, 0, doc.Deactivate("eth9"))
}

func TestDeactivateKeepsContent(t *testing.T) {
	data := readFixture(t, "interfaces")
	doc := Parse(data)
	doc.Deactivate("eth0")

	original := strings.Split(string(data), "\n")
	var result []string
	for _, l := range strings.Split(doc.String(), "\n") {
		// re-emitted remainder of the shared auto line
		if l == "auto lo" {
			continue
		}
		result = append(result, l)
	}
	require.Len(t, result, len(original))
	for i := range original {
		if result[i] != original[i] {
			assert.Equal(t, CommentMarker+original[i], result[i])
		}
	}
}

func TestAppend(t *testing.T) {
	doc := Parse(readFixture(t, "interfaces.noeth2"))
	doc.Append(&Entry{Interface: "eth2", Address: "10.0.0.2", Netmask: "255.255.255.0"})

	assert.True(t, strings.HasSuffix(doc.String(), "iface eth1 inet dhcp\n\nauto eth2\niface eth2 inet static\n    address 10.0.0.2\n    netmask 255.255.255.0\n"))
	require.Len(t, doc.ActiveIfaces("eth2"), 1)

	reparsed := Parse(doc.Bytes())
	e, ok := reparsed.Entry("eth2")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2", e.Address)
	assert.Equal(t, "", e.Gateway)
}

func TestRender(t *testing.T) {
	e := &Entry{Interface: "eth0", Address: "10.0.0.2", Netmask: "255.255.255.0", Gateway: "10.0.0.1"}
	assert.Equal(t, "auto eth0\niface eth0 inet static\n    address 10.0.0.2\n    netmask 255.255.255.0\n    gateway 10.0.0.1\n", e.Render())

	e.Gateway = ""
	e.DNSNameservers = "1.1.1.1"
	assert.Equal(t, "auto eth0\niface eth0 inet static\n    address 10.0.0.2\n    netmask 255.255.255.0\n    dns-nameservers 1.1.1.1\n", e.Render())
}

func TestValidate(t *testing.T) {
	valid := Entry{Interface: "enp3s0.100", Address: "10.0.0.2", Netmask: "255.255.255.0", Gateway: "10.0.0.1", DNSNameservers: "1.1.1.1 2606:4700::1111"}
	assert.NoError(t, valid.Validate())

	table := []struct {
		name   string
		mutate func(e *Entry)
	}{
		{"interface too long", func(e *Entry) { e.Interface = "averyveryverylongname" }},
		{"interface with space", func(e *Entry) { e.Interface = "eth0 up" }},
		{"address", func(e *Entry) { e.Address = "10.0.0.256" }},
		{"ipv6 address", func(e *Entry) { e.Address = "fe80::1" }},
		{"missing address", func(e *Entry) { e.Address = "" }},
		{"netmask", func(e *Entry) { e.Netmask = "255.0.255.0" }},
		{"netmask prefix", func(e *Entry) { e.Netmask = "24" }},
		{"gateway", func(e *Entry) { e.Gateway = "gw" }},
		{"nameserver", func(e *Entry) { e.DNSNameservers = "1.1.1.1 dns" }},
	}
	for _, c := range table {
		t.Run(c.name, func(t *testing.T) {
			e := valid
			c.mutate(&e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestMerge(t *testing.T) {
	e := &Entry{Interface: "eth0", Address: "10.0.0.3"}
	e.Merge(&Entry{Interface: "eth0", Address: "10.0.0.2", Netmask: "255.255.255.0", Gateway: "10.0.0.1"})
	assert.Equal(t, &Entry{Interface: "eth0", Address: "10.0.0.3", Netmask: "255.255.255.0", Gateway: "10.0.0.1"}, e)
	e.Merge(nil)
	assert.Equal(t, "10.0.0.1", e.Gateway)
}

func TestMergeClearsOptionalFields(t *testing.T) {
	current := &Entry{Interface: "eth0", Address: "10.0.0.2", Netmask: "255.255.255.0", Gateway: "10.0.0.1", DNSNameservers: "1.1.1.1"}
	table := []struct {
		name string
		req  Entry
		gw   string
		dns  string
	}{
		{"keep", Entry{Interface: "eth0"}, "10.0.0.1", "1.1.1.1"},
		{"clear gateway", Entry{Interface: "eth0", Gateway: "none"}, "", "1.1.1.1"},
		{"clear both", Entry{Interface: "eth0", Gateway: "None", DNSNameservers: "NONE"}, "", ""},
		{"replace dns", Entry{Interface: "eth0", DNSNameservers: "9.9.9.9"}, "10.0.0.1", "9.9.9.9"},
	}
	for _, c := range table {
		t.Run(c.name, func(t *testing.T) {
			e := c.req
			e.Merge(current)
			assert.Equal(t, c.gw, e.Gateway)
			assert.Equal(t, c.dns, e.DNSNameservers)
			assert.NoError(t, e.Validate())
		})
	}

	e := &Entry{Interface: "eth3", Address: "10.0.3.2", Netmask: "255.255.255.0", Gateway: "none"}
	e.Merge(nil)
	assert.Equal(t, "", e.Gateway)
}
