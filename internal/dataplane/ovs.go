package dataplane

import (
	"strings"

	"raikou/internal/utils"
)

const ovsDockerPath = "ovs-docker"

func NewOvsControlPlane() *OvsControlPlane {
	return &OvsControlPlane{netdev: newNetdev(utils.NewCommandFactory())}
}

// OvsControlPlane drives Open vSwitch through ovs-vsctl and manages
// container ports through the ovs-docker utility.
type OvsControlPlane struct {
	netdev
}

func (p *OvsControlPlane) EnsureBridge(bridge string) error {
	check := p.commandFactory.Command("ovs-vsctl", "br-exists", bridge)
	if err := check.Run(); err == nil {
		// bridge already created
		return nil
	}

	add := p.commandFactory.Command("ovs-vsctl", "--may-exist", "add-br", bridge)
	if out, err := add.CombineOutput(); err != nil {
		return commandError(out, err, "ovs-vsctl", "--may-exist", "add-br", bridge)
	}
	return nil
}

// PortBridge reports which bridge a port belongs to. A port unknown to OVS
// reads as absent, not as an error.
func (p *OvsControlPlane) PortBridge(port string) (string, bool, error) {
	cmd := p.commandFactory.Command("ovs-vsctl", "port-to-br", port)
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

func (p *OvsControlPlane) AttachPort(bridge string, port string) error {
	cmd := p.commandFactory.Command("ovs-vsctl", "--may-exist", "add-port", bridge, port)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ovs-vsctl", "--may-exist", "add-port", bridge, port)
	}
	return nil
}

func (p *OvsControlPlane) DetachPort(port string) error {
	cmd := p.commandFactory.Command("ovs-vsctl", "--if-exists", "del-port", port)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ovs-vsctl", "--if-exists", "del-port", port)
	}
	return nil
}

func (p *OvsControlPlane) SetPortVlan(bridge string, port string, vid string) error {
	cmd := p.commandFactory.Command("ovs-vsctl", "set", "port", port, "tag="+vid)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ovs-vsctl", "set", "port", port, "tag="+vid)
	}
	return nil
}

func (p *OvsControlPlane) SetPortTrunk(bridge string, port string, trunk string) error {
	cmd := p.commandFactory.Command("ovs-vsctl", "set", "port", port, "trunks="+trunk)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ovs-vsctl", "set", "port", port, "trunks="+trunk)
	}
	return nil
}

func (p *OvsControlPlane) SetPortNative(bridge string, port string, vid string) error {
	args := []string{"set", "port", port, "vlan_mode=native-untagged", "tag=" + vid}
	cmd := p.commandFactory.Command("ovs-vsctl", args...)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, "ovs-vsctl", args...)
	}
	return nil
}

func (p *OvsControlPlane) AddContainerPort(bridge string, iface string, container string, opts PortOptions) error {
	args := append([]string{"add-port", bridge, iface, container}, opts.args()...)
	cmd := p.commandFactory.Command(ovsDockerPath, args...)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, ovsDockerPath, args...)
	}
	return nil
}

func (p *OvsControlPlane) RemoveContainerPort(bridge string, iface string, container string) error {
	// best effort: the port record may already be gone
	cmd := p.commandFactory.Command(ovsDockerPath, "del-port", bridge, iface, container)
	_ = cmd.Run()
	return nil
}

func (p *OvsControlPlane) ContainerPortBridge(container string, iface string) (string, bool, error) {
	cmd := p.commandFactory.Command(ovsDockerPath, "get-port", container, iface)
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

func (p *OvsControlPlane) SetContainerPortVlan(bridge string, iface string, container string, vid string) error {
	cmd := p.commandFactory.Command(ovsDockerPath, "set-vlan", bridge, iface, container, vid)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, ovsDockerPath, "set-vlan", bridge, iface, container, vid)
	}
	return nil
}

func (p *OvsControlPlane) SetContainerPortTrunk(bridge string, iface string, container string, trunk string) error {
	cmd := p.commandFactory.Command(ovsDockerPath, "set-trunk", bridge, iface, container, trunk)
	if out, err := cmd.CombineOutput(); err != nil {
		return commandError(out, err, ovsDockerPath, "set-trunk", bridge, iface, container, trunk)
	}
	return nil
}
