package reconciler

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"raikou/internal/dataplane"
	"raikou/internal/store/lease"
)

// ReconcileBridge ensures the bridge exists and is up, reconciles its
// IPv4/IPv6 address against the lease and the live interface, and
// reconciles its parent uplinks.
func (r *Reconciler) ReconcileBridge(st *lease.LeaseState, name string, spec BridgeSpec) error {
	entry := st.Bridge(name)

	if err := r.ctl.EnsureBridge(name); err != nil {
		return err
	}
	if err := r.ctl.SetLinkUp(name); err != nil {
		return err
	}

	families := []struct {
		ipv6   bool
		family dataplane.Family
		cidr   string
		addr   string
	}{
		{false, dataplane.FamilyIPv4, spec.IpRange, spec.IpAddress},
		{true, dataplane.FamilyIPv6, spec.Ip6Range, spec.Ip6Address},
	}

	for _, f := range families {
		// a changed range invalidates every reservation before any
		// per-host logic runs
		syncRange(entry, f.ipv6, f.cidr)
		hosts := entry.Hosts(f.ipv6)

		if f.addr == "" {
			// no address requested: flush whatever the live interface
			// carries and drop the bridge's own reservation
			delete(hosts, name)
			_ = r.ctl.FlushAddresses(name, f.family)
			continue
		}

		setAddr, cacheChanged := false, false
		if f.addr != hosts[name] {
			// desired address differs from the lease record
			delete(hosts, name)
			_ = r.ctl.FlushAddresses(name, f.family)
			setAddr, cacheChanged = true, true
		} else {
			// lease agrees; verify the live interface still carries it
			live, err := r.ctl.LinkAddresses(name)
			if err != nil {
				return err
			}
			if !slices.Contains(live, f.addr) {
				setAddr = true
			}
		}

		if !setAddr {
			continue
		}
		if cacheChanged && hostsValueExists(hosts, f.addr) {
			return fmt.Errorf("%w: %s already allocated to someone else, cannot assign to bridge %s", ErrAddressConflict, f.addr, name)
		}
		if f.cidr != "" {
			if err := inRange(f.addr, f.cidr); err != nil {
				return err
			}
		}
		hosts[name] = f.addr
		if err := r.ctl.AddAddress(name, f.addr); err != nil {
			return err
		}
		log.Printf("updated address of bridge %s to %s", name, f.addr)
	}

	for _, parent := range spec.Parents {
		if err := r.reconcileParent(entry, name, parent); err != nil {
			return err
		}
	}
	return nil
}

// reconcileParent brings one uplink up, makes it a member of the bridge,
// and applies its VLAN settings. Trunk/native are re-pushed to the data
// plane only when the desired value differs from the cached value, so an
// unchanged pass never reconfigures VLANs.
func (r *Reconciler) reconcileParent(entry *lease.BridgeLease, bridge string, parent ParentSpec) error {
	iface := parent.Iface
	if iface == "" {
		log.Printf("parent entry without iface for bridge %s, skipping", bridge)
		return nil
	}

	if port, ok := strings.CutPrefix(iface, "usb:"); ok {
		resolved, err := r.ctl.ResolveUsbInterface(port)
		if err != nil {
			return err
		}
		iface = resolved
	}

	cache := entry.Parent(iface)

	if err := r.ctl.SetLinkUp(iface); err != nil {
		return err
	}

	current, attached, err := r.ctl.PortBridge(iface)
	if err != nil {
		return err
	}
	if !attached || current != bridge {
		if attached {
			// membership under a different bridge is torn down first
			if err := r.ctl.DetachPort(iface); err != nil {
				return err
			}
		}
		if err := r.ctl.AttachPort(bridge, iface); err != nil {
			return err
		}
		log.Printf("parent %s attached to bridge %s", iface, bridge)
	}

	if parent.Trunk != cache.Trunk {
		log.Printf("new trunk %q applied for parent %s", parent.Trunk, iface)
		cache.Trunk = parent.Trunk
		if parent.Trunk != "" {
			if err := r.ctl.SetPortTrunk(bridge, iface, parent.Trunk); err != nil {
				return err
			}
		}
	}
	if parent.Native != cache.Native {
		log.Printf("new native vlan %q applied for parent %s", parent.Native, iface)
		cache.Native = parent.Native
		if parent.Native != "" {
			if err := r.ctl.SetPortNative(bridge, iface, parent.Native); err != nil {
				return err
			}
		}
	}
	return nil
}
