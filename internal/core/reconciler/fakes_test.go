package reconciler

import (
	"errors"
	"strings"

	"raikou/internal/dataplane"
)

// fakeControlPlane simulates the data plane in memory and records every
// mutating call so tests can assert on what a pass actually touched.
type fakeControlPlane struct {
	bridges        map[string]bool
	links          map[string]bool
	addrs          map[string][]string
	ports          map[string]string
	containerPorts map[string]string
	usb            map[string][]string

	runtime *fakeRuntime // container side effects of ovs-docker style calls

	calls  []string
	failOn map[string]error

	lastPortOptions dataplane.PortOptions
}

func newFakeControlPlane(rt *fakeRuntime) *fakeControlPlane {
	return &fakeControlPlane{
		bridges:        map[string]bool{},
		links:          map[string]bool{},
		addrs:          map[string][]string{},
		ports:          map[string]string{},
		containerPorts: map[string]string{},
		usb:            map[string][]string{},
		runtime:        rt,
		failOn:         map[string]error{},
	}
}

func (f *fakeControlPlane) record(name string, args ...string) {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
}

func (f *fakeControlPlane) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeControlPlane) fail(name string) error {
	if err, ok := f.failOn[name]; ok {
		return err
	}
	return nil
}

func (f *fakeControlPlane) EnsureBridge(bridge string) error {
	f.record("EnsureBridge", bridge)
	if err := f.fail("EnsureBridge"); err != nil {
		return err
	}
	f.bridges[bridge] = true
	return nil
}

func (f *fakeControlPlane) SetLinkUp(link string) error {
	f.record("SetLinkUp", link)
	return f.fail("SetLinkUp")
}

func (f *fakeControlPlane) FlushAddresses(link string, family dataplane.Family) error {
	f.record("FlushAddresses", link, string(family))
	var kept []string
	for _, a := range f.addrs[link] {
		v6 := strings.Contains(a, ":")
		if family == dataplane.FamilyIPv6 && v6 || family == dataplane.FamilyIPv4 && !v6 {
			continue
		}
		kept = append(kept, a)
	}
	f.addrs[link] = kept
	return nil
}

func (f *fakeControlPlane) AddAddress(link string, addr string) error {
	f.record("AddAddress", link, addr)
	if err := f.fail("AddAddress"); err != nil {
		return err
	}
	f.addrs[link] = append(f.addrs[link], addr)
	return nil
}

func (f *fakeControlPlane) LinkAddresses(link string) ([]string, error) {
	return f.addrs[link], nil
}

func (f *fakeControlPlane) LinkExists(link string) (bool, error) {
	return f.links[link] || f.bridges[link], nil
}

func (f *fakeControlPlane) CreateVethPair(end0 string, end1 string) error {
	f.record("CreateVethPair", end0, end1)
	if err := f.fail("CreateVethPair"); err != nil {
		return err
	}
	f.links[end0] = true
	f.links[end1] = true
	return nil
}

func (f *fakeControlPlane) ResolveUsbInterface(usbPort string) (string, error) {
	matches := f.usb[usbPort]
	switch len(matches) {
	case 0:
		return "", errors.New("no interface for usb port " + usbPort)
	case 1:
		return matches[0], nil
	default:
		return "", dataplane.ErrAmbiguousUsbParent
	}
}

func (f *fakeControlPlane) PortBridge(port string) (string, bool, error) {
	bridge, ok := f.ports[port]
	return bridge, ok, nil
}

func (f *fakeControlPlane) AttachPort(bridge string, port string) error {
	f.record("AttachPort", bridge, port)
	if err := f.fail("AttachPort"); err != nil {
		return err
	}
	f.ports[port] = bridge
	return nil
}

func (f *fakeControlPlane) DetachPort(port string) error {
	f.record("DetachPort", port)
	delete(f.ports, port)
	return nil
}

func (f *fakeControlPlane) SetPortVlan(bridge string, port string, vid string) error {
	f.record("SetPortVlan", bridge, port, vid)
	return f.fail("SetPortVlan")
}

func (f *fakeControlPlane) SetPortTrunk(bridge string, port string, trunk string) error {
	f.record("SetPortTrunk", bridge, port, trunk)
	return f.fail("SetPortTrunk")
}

func (f *fakeControlPlane) SetPortNative(bridge string, port string, vid string) error {
	f.record("SetPortNative", bridge, port, vid)
	return f.fail("SetPortNative")
}

func (f *fakeControlPlane) AddContainerPort(bridge string, iface string, container string, opts dataplane.PortOptions) error {
	f.record("AddContainerPort", bridge, iface, container)
	if err := f.fail("AddContainerPort"); err != nil {
		return err
	}
	f.containerPorts[container+"/"+iface] = bridge
	f.lastPortOptions = opts
	if f.runtime != nil {
		f.runtime.addIface(container, iface, opts.MacAddress)
	}
	return nil
}

func (f *fakeControlPlane) RemoveContainerPort(bridge string, iface string, container string) error {
	f.record("RemoveContainerPort", bridge, iface, container)
	delete(f.containerPorts, container+"/"+iface)
	if f.runtime != nil {
		f.runtime.delIface(container, iface)
	}
	return nil
}

func (f *fakeControlPlane) ContainerPortBridge(container string, iface string) (string, bool, error) {
	bridge, ok := f.containerPorts[container+"/"+iface]
	return bridge, ok, nil
}

func (f *fakeControlPlane) SetContainerPortVlan(bridge string, iface string, container string, vid string) error {
	f.record("SetContainerPortVlan", bridge, iface, container, vid)
	return f.fail("SetContainerPortVlan")
}

func (f *fakeControlPlane) SetContainerPortTrunk(bridge string, iface string, container string, trunk string) error {
	f.record("SetContainerPortTrunk", bridge, iface, container, trunk)
	return f.fail("SetContainerPortTrunk")
}

// fakeRuntime simulates just enough of the container runtime: interface
// presence and MAC addresses, driven by the ip(8) commands the
// reconciler issues.
type fakeRuntime struct {
	containers map[string]bool
	ifaces     map[string]map[string]string // container -> iface -> mac
	execs      []string
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		containers: map[string]bool{},
		ifaces:     map[string]map[string]string{},
	}
}

func (f *fakeRuntime) addIface(container string, iface string, mac string) {
	if f.ifaces[container] == nil {
		f.ifaces[container] = map[string]string{}
	}
	f.ifaces[container][iface] = mac
}

func (f *fakeRuntime) delIface(container string, iface string) {
	delete(f.ifaces[container], iface)
}

func (f *fakeRuntime) ContainerExists(container string) (bool, error) {
	return f.containers[container], nil
}

func (f *fakeRuntime) Exec(container string, command ...string) (string, error) {
	f.execs = append(f.execs, strings.Join(command, " "))
	cmd := strings.Join(command, " ")

	switch {
	case len(command) == 4 && command[2] == "show": // ip link show <iface>
		if _, ok := f.ifaces[container][command[3]]; !ok {
			return "", errors.New("device does not exist")
		}
		return "2: " + command[3] + ": <BROADCAST,MULTICAST,UP>", nil
	case len(command) == 5 && command[3] == "dev": // ip link show dev <iface>
		mac := f.ifaces[container][command[4]]
		return "link/ether " + mac + " brd ff:ff:ff:ff:ff:ff", nil
	case len(command) == 7 && command[2] == "set": // ip link set dev <iface> addr <mac>
		f.addIface(container, command[4], command[6])
		return "", nil
	case len(command) == 4 && command[2] == "del": // ip link del <iface>
		f.delIface(container, command[3])
		return "", nil
	}
	return "", errors.New("unexpected command: " + cmd)
}
