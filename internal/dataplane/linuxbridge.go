package dataplane

import (
	"regexp"
	"strings"

	"raikou/internal/utils"
)

const lxbrDockerPath = "lxbr-docker"

var masterPattern = regexp.MustCompile(`\bmaster\s+(\S+)`)

func NewLinuxBridgeControlPlane() *LinuxBridgeControlPlane {
	return &LinuxBridgeControlPlane{netdev: newNetdev(utils.NewCommandFactory())}
}

// LinuxBridgeControlPlane drives the kernel bridge through brctl and
// bridge(8), with VLAN filtering enabled per bridge. Container ports go
// through the lxbr-docker utility, which mirrors the ovs-docker surface.
type LinuxBridgeControlPlane struct {
	netdev
}

func (p *LinuxBridgeControlPlane) EnsureBridge(bridge string) error {
	check := p.commandFactory.Command("brctl", "show", bridge)
	if out, err := check.CombineOutput(); err == nil && !strings.Contains(string(out), "No such device") {
		return nil
	}

	// brctl exits non-zero when the bridge already exists; treat the add
	// as idempotent and verify afterwards
	add := p.commandFactory.Command("brctl", "addbr", bridge)
	_ = add.Run()

	verify := p.commandFactory.Command("ip", "link", "show", bridge)
	if out, err := verify.CombineOutput(); err != nil {
		return commandError(out, err, "brctl", "addbr", bridge)
	}
	return nil
}

func (p *LinuxBridgeControlPlane) PortBridge(port string) (string, bool, error) {
	cmd := p.commandFactory.Command("ip", "-o", "link", "show", port)
	out, err := cmd.Output()
	if err != nil {
		return "", false, nil
	}
	m := masterPattern.FindStringSubmatch(string(out))
	if m == nil {
		return "", false, nil
	}
	return m[1], true, nil
}

func (p *LinuxBridgeControlPlane) AttachPort(bridge string, port string) error {
	add := p.commandFactory.Command("brctl", "addif", bridge, port)
	if out, err := add.CombineOutput(); err != nil {
		return commandError(out, err, "brctl", "addif", bridge, port)
	}
	return p.enableVlanFiltering(bridge)
}

func (p *LinuxBridgeControlPlane) DetachPort(port string) error {
	cmd := p.commandFactory.Command("ip", "link", "set", "dev", port, "nomaster")
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ip", "link", "set", "dev", port, "nomaster")
	}
	return nil
}

func (p *LinuxBridgeControlPlane) SetPortVlan(bridge string, port string, vid string) error {
	return p.setPortVlans(bridge, port, vid, true)
}

func (p *LinuxBridgeControlPlane) SetPortTrunk(bridge string, port string, trunk string) error {
	return p.setPortVlans(bridge, port, trunk, false)
}

func (p *LinuxBridgeControlPlane) SetPortNative(bridge string, port string, vid string) error {
	return p.setPortVlans(bridge, port, vid, true)
}

// setPortVlans replaces the default VLAN of a bridge port with the given
// comma-separated ids. Untagged modes add the pvid so ingress frames are
// classified into the VLAN.
func (p *LinuxBridgeControlPlane) setPortVlans(bridge string, port string, vids string, untagged bool) error {
	if err := p.enableVlanFiltering(bridge); err != nil {
		return err
	}

	del := p.commandFactory.Command("bridge", "vlan", "delete", "dev", port, "vid", "1")
	_ = del.Run()

	for _, vid := range strings.Split(vids, ",") {
		args := []string{"vlan", "add", "dev", port, "vid", vid}
		if untagged {
			args = append(args, "pvid", "untagged")
		}
		cmd := p.commandFactory.Command("bridge", args...)
		if out, err := cmd.CombineOutput(); err != nil {
			return commandError(out, err, "bridge", args...)
		}
	}
	return nil
}

func (p *LinuxBridgeControlPlane) enableVlanFiltering(bridge string) error {
	args := []string{"link", "set", bridge, "type", "bridge", "vlan_filtering", "1"}
	cmd := p.commandFactory.Command("ip", args...)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ip", args...)
	}
	return nil
}

func (p *LinuxBridgeControlPlane) AddContainerPort(bridge string, iface string, container string, opts PortOptions) error {
	args := append([]string{"add-port", bridge, iface, container}, opts.args()...)
	cmd := p.commandFactory.Command(lxbrDockerPath, args...)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, lxbrDockerPath, args...)
	}
	return nil
}

func (p *LinuxBridgeControlPlane) RemoveContainerPort(bridge string, iface string, container string) error {
	cmd := p.commandFactory.Command(lxbrDockerPath, "del-port", bridge, iface, container)
	_ = cmd.Run()
	return nil
}

func (p *LinuxBridgeControlPlane) ContainerPortBridge(container string, iface string) (string, bool, error) {
	cmd := p.commandFactory.Command(lxbrDockerPath, "get-port", container, iface)
	out, err := cmd.Output()
	if err != nil {
		return "", false, nil
	}
	bridge := strings.TrimSpace(string(out))
	if bridge == "" {
		return "", false, nil
	}
	return bridge, true, nil
}

func (p *LinuxBridgeControlPlane) SetContainerPortVlan(bridge string, iface string, container string, vid string) error {
	cmd := p.commandFactory.Command(lxbrDockerPath, "set-vlan", bridge, iface, container, vid)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, lxbrDockerPath, "set-vlan", bridge, iface, container, vid)
	}
	return nil
}

func (p *LinuxBridgeControlPlane) SetContainerPortTrunk(bridge string, iface string, container string, trunk string) error {
	cmd := p.commandFactory.Command(lxbrDockerPath, "set-trunk", bridge, iface, container, trunk)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, lxbrDockerPath, "set-trunk", bridge, iface, container, trunk)
	}
	return nil
}
