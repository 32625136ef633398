package netconfig

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

const (
	MethodStatic = "static"
	// ClearValue given for an optional field removes it instead of keeping the current value
	ClearValue = "none"
	indent     = "    "
)

var interfaceNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,15}$`)

// Entry a static IPv4 configuration of one interface
type Entry struct {
	Interface string
	Address   string
	Netmask   string
	// optional
	Gateway string
	// optional, space separated
	DNSNameservers string
}

// Lines the rendered stanza, auto line first
func (e *Entry) Lines() []string {
	lines := []string{
		fmt.Sprintf("%s %s", KeywordAuto, e.Interface),
		fmt.Sprintf("%s %s inet %s", KeywordIface, e.Interface, MethodStatic),
		indent + "address " + e.Address,
		indent + "netmask " + e.Netmask,
	}
	if e.Gateway != "" {
		lines = append(lines, indent+"gateway "+e.Gateway)
	}
	if e.DNSNameservers != "" {
		lines = append(lines, indent+"dns-nameservers "+e.DNSNameservers)
	}
	return lines
}

func (e *Entry) Render() string {
	return strings.Join(e.Lines(), "\n") + "\n"
}

// Validate interface name, address, netmask and the optional fields
func (e *Entry) Validate() error {
	var errs field.ErrorList
	if !interfaceNameRegexp.MatchString(e.Interface) {
		errs = append(errs, field.Invalid(field.NewPath("interface"), e.Interface, "must be 1-15 characters of letters, digits, '_', '.', ':' or '-'"))
	}
	if e.Address == "" {
		errs = append(errs, field.Required(field.NewPath("address"), ""))
	} else {
		errs = append(errs, validation.IsValidIPv4Address(field.NewPath("address"), e.Address)...)
	}
	if e.Netmask == "" {
		errs = append(errs, field.Required(field.NewPath("netmask"), ""))
	} else if err := ValidateNetmask(e.Netmask); err != nil {
		errs = append(errs, field.Invalid(field.NewPath("netmask"), e.Netmask, err.Error()))
	}
	if e.Gateway != "" {
		errs = append(errs, validation.IsValidIPv4Address(field.NewPath("gateway"), e.Gateway)...)
	}
	for i, ns := range strings.Fields(e.DNSNameservers) {
		if len(validation.IsValidIP(ns)) > 0 {
			errs = append(errs, field.Invalid(field.NewPath("dns-nameservers").Index(i), ns, "must be a valid IP address"))
		}
	}
	return errs.ToAggregate()
}

// ValidateNetmask dotted quad with contiguous one bits
func ValidateNetmask(mask string) error {
	ip := net.ParseIP(mask).To4()
	if ip == nil {
		return fmt.Errorf("must be a dotted IPv4 netmask")
	}
	if _, bits := net.IPMask(ip).Size(); bits == 0 {
		return fmt.Errorf("must have contiguous one bits")
	}
	return nil
}

// ValidateIPv4 used for gateway changes outside of a stanza
func ValidateIPv4(name, value string) error {
	return validation.IsValidIPv4Address(field.NewPath(name), value).ToAggregate()
}

func entryFromBlock(b *Block) *Entry {
	e := &Entry{Interface: b.Args[0]}
	for _, l := range b.Lines[1:] {
		fields := strings.Fields(l)
		if len(fields) < 2 {
			continue
		}
		value := strings.Join(fields[1:], " ")
		switch fields[0] {
		case "address":
			e.Address = value
			if ip, ipNet, err := net.ParseCIDR(value); err == nil && ip.To4() != nil {
				e.Address = ip.String()
				e.Netmask = net.IP(ipNet.Mask).String()
			}
		case "netmask":
			e.Netmask = value
		case "gateway":
			e.Gateway = value
		case "dns-nameservers":
			e.DNSNameservers = value
		}
	}
	return e
}

// Merge fills empty fields of e from current, current may be nil
func (e *Entry) Merge(current *Entry) {
	if current == nil {
		current = &Entry{}
	}
	if e.Address == "" {
		e.Address = current.Address
	}
	if e.Netmask == "" {
		e.Netmask = current.Netmask
	}
	e.Gateway = mergeOptional(e.Gateway, current.Gateway)
	e.DNSNameservers = mergeOptional(e.DNSNameservers, current.DNSNameservers)
}

func mergeOptional(value, current string) string {
	switch {
	case strings.EqualFold(value, ClearValue):
		return ""
	case value == "":
		return current
	}
	return value
}
