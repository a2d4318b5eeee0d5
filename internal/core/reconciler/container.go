package reconciler

import (
	"log"
	"strings"

	"raikou/internal/dataplane"
	"raikou/internal/store/lease"
)

// ReconcileContainerInterface ensures the container carries the declared
// interface on the right bridge with the right addressing.
//
// The interface can be in one of four states relative to the container
// namespace and the control plane:
//
//   - container absent: nothing to reconcile
//   - present in both: only MAC drift is corrected
//   - present in the container but unknown to the control plane (stale
//     leftover of a reconciler restart): both sides are cleaned and the
//     interface recreated
//   - absent from the container: stale port record removed, interface
//     created
func (r *Reconciler) ReconcileContainerInterface(st *lease.LeaseState, container string, spec ContainerInterfaceSpec) error {
	exists, err := r.runtime.ContainerExists(container)
	if err != nil {
		return err
	}
	if !exists {
		log.Printf("container %s does not exist, skipping", container)
		return nil
	}

	entry := st.Bridge(spec.Bridge)
	iface := spec.Iface

	if _, err := r.runtime.Exec(container, "ip", "link", "show", iface); err == nil {
		if _, known, err := r.ctl.ContainerPortBridge(container, iface); err != nil {
			return err
		} else if known {
			return r.reconcileMac(container, iface, spec.MacAddress)
		}

		// The namespace still has the interface but the control plane
		// lost its record of it (reconciler restart). Clean both sides
		// and recreate.
		log.Printf("iface %s exists inside container %s but not on the bridge, removing", iface, container)
		_, _ = r.runtime.Exec(container, "ip", "link", "del", iface)
		_ = r.ctl.RemoveContainerPort(spec.Bridge, iface, container)
	} else {
		log.Printf("container %s is missing interface %s", container, iface)
		_ = r.ctl.RemoveContainerPort(spec.Bridge, iface, container)
	}

	opts := dataplane.PortOptions{
		Gateway:    spec.Gateway,
		Gateway6:   spec.Gateway6,
		MacAddress: spec.MacAddress,
	}

	if err := r.resolveAddress(entry, container, spec.IpAddress, false, &opts.Ipv4Address); err != nil {
		return err
	}
	if err := r.resolveAddress(entry, container, spec.Ip6Address, true, &opts.Ipv6Address); err != nil {
		return err
	}

	if err := r.ctl.AddContainerPort(spec.Bridge, iface, container, opts); err != nil {
		return err
	}
	log.Printf("interface %s connected to bridge %s added to container %s", iface, spec.Bridge, container)

	if spec.Vlan != "" {
		if err := r.ctl.SetContainerPortVlan(spec.Bridge, iface, container, spec.Vlan); err != nil {
			return err
		}
		log.Printf("vlan tag %s set for %s:%s", spec.Vlan, container, iface)
	}
	if spec.Trunk != "" {
		if err := r.ctl.SetContainerPortTrunk(spec.Bridge, iface, container, spec.Trunk); err != nil {
			return err
		}
		log.Printf("trunk %s set for %s:%s", spec.Trunk, container, iface)
	}
	return nil
}

// reconcileMac corrects MAC drift on an interface that already exists in
// both the namespace and the control plane. This is the terminal action
// for that state.
func (r *Reconciler) reconcileMac(container string, iface string, mac string) error {
	if mac == "" {
		return nil
	}
	out, _ := r.runtime.Exec(container, "ip", "link", "show", "dev", iface)
	if !strings.Contains(strings.ToLower(out), strings.ToLower(mac)) {
		_, _ = r.runtime.Exec(container, "ip", "link", "set", "dev", iface, "addr", mac)
	}
	return nil
}

// resolveAddress fills in one family of the port options: an explicit
// address is validated and reserved, the NoAddress sentinel leaves the
// family unset, and an empty field auto-allocates from the bridge's
// range when one is declared.
func (r *Reconciler) resolveAddress(entry *lease.BridgeLease, container string, addr string, ipv6 bool, target *string) error {
	hosts := entry.Hosts(ipv6)

	if addr != "" {
		if addr == NoAddress {
			return nil
		}
		if err := validateExplicit(container, addr, ipv6); err != nil {
			return err
		}
		if err := reserve(hosts, container, addr); err != nil {
			return err
		}
		*target = addr
		return nil
	}

	rangeCIDR := entry.Range(ipv6)
	if rangeCIDR == "" {
		return nil
	}
	allocated, err := autoAllocate(hosts, container, rangeCIDR)
	if err != nil {
		return err
	}
	*target = allocated
	return nil
}
