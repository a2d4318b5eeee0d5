package reconciler

// NoAddress is the sentinel a user puts in an address field to request
// that no address be assigned, suppressing auto-allocation.
const NoAddress = "No-IP"

// ParentSpec describes one uplink of a bridge. Iface is either a literal
// host interface name or a "usb:<port>" alias resolved at reconcile time.
type ParentSpec struct {
	Iface  string
	Trunk  string // comma separated VLAN ids
	Native string // untagged VLAN id
}

// BridgeSpec is the desired state of one bridge. Addresses and ranges are
// CIDR strings; empty means absent.
type BridgeSpec struct {
	Parents    []ParentSpec
	IpRange    string
	Ip6Range   string
	IpAddress  string
	Ip6Address string
}

// ContainerInterfaceSpec is the desired state of one interface inside a
// container. Address fields are a literal address with prefix, the
// NoAddress sentinel, or empty to auto-allocate from the bridge's range.
type ContainerInterfaceSpec struct {
	Iface      string
	Bridge     string
	Vlan       string
	Trunk      string
	IpAddress  string
	Ip6Address string
	Gateway    string
	Gateway6   string
	MacAddress string
}

// VlanTranslationSpec links two VLAN ids across a bridge via a veth pair.
// Map is "source:dest". PairId overrides the hash-derived pair name; it is
// used by the management API for explicitly named (possibly dangling)
// pairs.
type VlanTranslationSpec struct {
	On     string
	Map    string
	PairId string
}

// Document is the desired-state input of one reconciliation pass.
type Document struct {
	Bridges          map[string]BridgeSpec
	Containers       map[string][]ContainerInterfaceSpec
	VlanTranslations []VlanTranslationSpec
}
