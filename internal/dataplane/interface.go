package dataplane

// ControlPlane is the surface the reconcilers use to mutate and inspect
// the host's network data plane. Two capability-equivalent backends
// implement it: Open vSwitch and the kernel Linux bridge.
type ControlPlane interface {
	// Bridge and host link operations.
	EnsureBridge(bridge string) error
	SetLinkUp(link string) error
	FlushAddresses(link string, family Family) error
	AddAddress(link string, addr string) error
	LinkAddresses(link string) ([]string, error)
	LinkExists(link string) (bool, error)
	CreateVethPair(end0 string, end1 string) error
	ResolveUsbInterface(usbPort string) (string, error)

	// Port membership and VLAN settings for host-side ports.
	PortBridge(port string) (string, bool, error)
	AttachPort(bridge string, port string) error
	DetachPort(port string) error
	SetPortVlan(bridge string, port string, vid string) error
	SetPortTrunk(bridge string, port string, trunk string) error
	SetPortNative(bridge string, port string, vid string) error

	// Container-side port operations (ovs-docker / lxbr-docker).
	AddContainerPort(bridge string, iface string, container string, opts PortOptions) error
	RemoveContainerPort(bridge string, iface string, container string) error
	ContainerPortBridge(container string, iface string) (string, bool, error)
	SetContainerPortVlan(bridge string, iface string, container string, vid string) error
	SetContainerPortTrunk(bridge string, iface string, container string, trunk string) error
}
