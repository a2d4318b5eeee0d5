package reconciler

import (
	"fmt"
	"log"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"raikou/internal/store/lease"

	"github.com/apparentlymart/go-cidr/cidr"
)

// reservedHostOffset is the number of leading host addresses of a range
// never handed out by auto-allocation; they are reserved for
// infrastructure use.
const reservedHostOffset = 5

// validateExplicit checks a user-supplied address for the given family.
// The address must carry a prefix length and parse as the expected
// family.
func validateExplicit(hostKey string, addr string, ipv6 bool) error {
	if !strings.Contains(addr, "/") {
		return fmt.Errorf("%w: %s: ip %s must have a prefix mask", ErrInvalidAddress, hostKey, addr)
	}
	p, err := netip.ParsePrefix(addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %s: %v", ErrInvalidAddress, hostKey, addr, err)
	}
	if ipv6 && !p.Addr().Is6() || !ipv6 && !p.Addr().Is4() {
		family := "IPv4"
		if ipv6 {
			family = "IPv6"
		}
		return fmt.Errorf("%w: %s: %s must be a valid %s address", ErrInvalidAddress, hostKey, addr, family)
	}
	return nil
}

// reserve commits addr to hostKey in the reservation map. Re-reserving
// the same address for the same host is a no-op; an address held by a
// different host is a conflict.
func reserve(hosts map[string]string, hostKey string, addr string) error {
	if hosts[hostKey] == addr {
		return nil
	}
	delete(hosts, hostKey)
	if hostsValueExists(hosts, addr) {
		return fmt.Errorf("%w: %s already allocated to someone else, cannot assign to %s", ErrAddressConflict, addr, hostKey)
	}
	hosts[hostKey] = addr
	return nil
}

// autoAllocate hands out the lowest free host address of the range,
// skipping the reserved leading addresses, and commits it under hostKey.
func autoAllocate(hosts map[string]string, hostKey string, rangeCIDR string) (string, error) {
	_, ipnet, err := net.ParseCIDR(rangeCIDR)
	if err != nil {
		return "", fmt.Errorf("%w: range %s: %v", ErrInvalidAddress, rangeCIDR, err)
	}
	ones, _ := ipnet.Mask.Size()
	prefix := strconv.Itoa(ones)

	for i := reservedHostOffset + 1; ; i++ {
		host, err := cidr.Host(ipnet, i)
		if err != nil {
			break
		}
		if ipnet.IP.To4() != nil && isBroadcast(ipnet, host) {
			break
		}
		addr := host.String() + "/" + prefix
		if !hostsValueExists(hosts, addr) {
			log.Printf("automatic allocation of %s to %s", addr, hostKey)
			hosts[hostKey] = addr
			return addr, nil
		}
	}
	return "", fmt.Errorf("%w: failed to allocate an address in %s to %s", ErrRangeExhausted, rangeCIDR, hostKey)
}

// inRange reports whether addr (with prefix) falls inside the range CIDR.
func inRange(addr string, rangeCIDR string) error {
	p, err := netip.ParsePrefix(addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidAddress, addr, err)
	}
	r, err := netip.ParsePrefix(rangeCIDR)
	if err != nil {
		return fmt.Errorf("%w: %s is not a valid range", ErrInvalidAddress, rangeCIDR)
	}
	if !r.Contains(p.Addr()) {
		return fmt.Errorf("%w: %s does not fall under the range %s", ErrInvalidAddress, addr, rangeCIDR)
	}
	return nil
}

// syncRange records a changed range CIDR in the lease entry, invalidating
// every reservation of that family first. This runs before any per-host
// reservation logic for the range.
func syncRange(entry *lease.BridgeLease, ipv6 bool, rangeCIDR string) {
	if entry.Range(ipv6) == rangeCIDR {
		return
	}
	entry.SetRange(ipv6, rangeCIDR)
	entry.ClearHosts(ipv6)
}

func hostsValueExists(hosts map[string]string, addr string) bool {
	for _, v := range hosts {
		if v == addr {
			return true
		}
	}
	return false
}

func isBroadcast(ipnet *net.IPNet, ip net.IP) bool {
	v4 := ip.To4()
	base := ipnet.IP.To4()
	if v4 == nil || base == nil {
		return false
	}
	for i := 0; i < 4; i++ {
		if v4[i] != base[i]|^ipnet.Mask[i] {
			return false
		}
	}
	return true
}
