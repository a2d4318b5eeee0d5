package dataplane

import (
	"errors"
	"fmt"
	"strings"
)

type Family string

const (
	FamilyIPv4 Family = "-4"
	FamilyIPv6 Family = "-6"
)

// PortOptions carries the optional addressing parameters for a container
// port creation. Empty fields are omitted from the resulting command.
type PortOptions struct {
	Ipv4Address string
	Ipv6Address string
	Gateway     string
	Gateway6    string
	MacAddress  string
}

func (o PortOptions) args() []string {
	var args []string
	if o.Gateway != "" {
		args = append(args, "--gateway="+o.Gateway)
	}
	if o.Gateway6 != "" {
		args = append(args, "--gateway6="+o.Gateway6)
	}
	if o.Ipv4Address != "" {
		args = append(args, "--ipaddress="+o.Ipv4Address)
	}
	if o.Ipv6Address != "" {
		args = append(args, "--ip6address="+o.Ipv6Address)
	}
	if o.MacAddress != "" {
		args = append(args, "--macaddress="+o.MacAddress)
	}
	return args
}

// ErrCommandFailed marks a non-zero exit from a mutating control-plane
// command. It aborts the current reconciliation pass.
var ErrCommandFailed = errors.New("control plane command failed")

// ErrAmbiguousUsbParent is returned when more than one host interface
// matches a usb:<port> parent alias.
var ErrAmbiguousUsbParent = errors.New("multiple interfaces match usb port")

func commandError(out []byte, err error, name string, args ...string) error {
	msg := strings.TrimSpace(string(out))
	cmdline := name + " " + strings.Join(args, " ")
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrCommandFailed, cmdline, err)
	}
	return fmt.Errorf("%w: %s: %s", ErrCommandFailed, cmdline, msg)
}
