package dataplane

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"raikou/internal/utils"
)

var addrPattern = regexp.MustCompile(`inet\d*\s+(\S+)`)

const sysClassNet = "/sys/class/net"

// netdev implements the ip(8)-level operations shared by both control
// plane backends.
type netdev struct {
	commandFactory utils.CommandFactory
	sysClassNet    string
}

func newNetdev(factory utils.CommandFactory) netdev {
	return netdev{
		commandFactory: factory,
		sysClassNet:    sysClassNet,
	}
}

func (n netdev) SetLinkUp(link string) error {
	cmd := n.commandFactory.Command("ip", "link", "set", link, "up")
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ip", "link", "set", link, "up")
	}
	return nil
}

func (n netdev) FlushAddresses(link string, family Family) error {
	// flush is best effort: the link may carry no address of this family
	cmd := n.commandFactory.Command("ip", string(family), "addr", "flush", "dev", link)
	_ = cmd.Run()
	return nil
}

func (n netdev) AddAddress(link string, addr string) error {
	cmd := n.commandFactory.Command("ip", "addr", "add", addr, "dev", link)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ip", "addr", "add", addr, "dev", link)
	}
	return nil
}

// LinkAddresses returns every address currently assigned to the link,
// both families, in "addr/prefix" form.
func (n netdev) LinkAddresses(link string) ([]string, error) {
	cmd := n.commandFactory.Command("ip", "-o", "addr", "show", link)
	out, err := cmd.Output()
	if err != nil {
		// unknown link reads as "no addresses"
		return nil, nil
	}

	var addrs []string
	for _, m := range addrPattern.FindAllStringSubmatch(strings.TrimSpace(string(out)), -1) {
		addrs = append(addrs, m[1])
	}
	return addrs, nil
}

func (n netdev) LinkExists(link string) (bool, error) {
	cmd := n.commandFactory.Command("ip", "link", "show", link)
	if err := cmd.Run(); err != nil {
		return false, nil
	}
	return true, nil
}

func (n netdev) CreateVethPair(end0 string, end1 string) error {
	cmd := n.commandFactory.Command("ip", "link", "add", end0, "type", "veth", "peer", "name", end1)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ip", "link", "add", end0, "type", "veth", "peer", "name", end1)
	}
	return nil
}

// ResolveUsbInterface maps a usb:<port> parent alias to a concrete
// interface name by scanning the sysfs device links of every host
// interface for the USB bus identifier.
func (n netdev) ResolveUsbInterface(usbPort string) (string, error) {
	entries, err := os.ReadDir(n.sysClassNet)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", n.sysClassNet, err)
	}

	var matches []string
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join(n.sysClassNet, e.Name()))
		if err != nil {
			continue
		}
		if strings.Contains(target, usbPort) {
			matches = append(matches, e.Name())
		}
	}

	if len(matches) > 1 {
		return "", fmt.Errorf("%w: usb bus %s: %s", ErrAmbiguousUsbParent, usbPort, strings.Join(matches, ", "))
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no network interface found for usb port %s", usbPort)
	}
	return matches[0], nil
}
