package lease

// LeaseState is the persisted mirror of previously-applied network state.
// It is loaded once at the start of a reconciliation pass, mutated in
// memory, and written back unconditionally when the pass ends.
type LeaseState struct {
	Bridges    map[string]*BridgeLease `json:"bridges"`
	Failed     int                     `json:"failed"`
	LastPassId string                  `json:"lastPassId,omitempty"`
}

// BridgeLease holds the last-applied state for one bridge: its address
// ranges, the per-range host reservations, and the VLAN settings of its
// parent uplinks. Host keys are either the bridge's own name (the bridge
// self-address) or a container name.
type BridgeLease struct {
	Parents       map[string]*ParentLease `json:"parents,omitempty"`
	IpRange       string                  `json:"iprange,omitempty"`
	Ip6Range      string                  `json:"ip6range,omitempty"`
	IpRangeHosts  map[string]string       `json:"iprange_hosts,omitempty"`
	Ip6RangeHosts map[string]string       `json:"ip6range_hosts,omitempty"`
}

type ParentLease struct {
	Trunk  string `json:"trunk,omitempty"`
	Native string `json:"native,omitempty"`
}

// Bridge returns the lease entry for the named bridge, creating it if
// missing.
func (s *LeaseState) Bridge(name string) *BridgeLease {
	if s.Bridges == nil {
		s.Bridges = map[string]*BridgeLease{}
	}
	b, ok := s.Bridges[name]
	if !ok {
		b = &BridgeLease{}
		s.Bridges[name] = b
	}
	return b
}

// Parent returns the cached VLAN settings for the named parent interface,
// creating the entry if missing.
func (b *BridgeLease) Parent(name string) *ParentLease {
	if b.Parents == nil {
		b.Parents = map[string]*ParentLease{}
	}
	p, ok := b.Parents[name]
	if !ok {
		p = &ParentLease{}
		b.Parents[name] = p
	}
	return p
}

func (b *BridgeLease) Range(ipv6 bool) string {
	if ipv6 {
		return b.Ip6Range
	}
	return b.IpRange
}

func (b *BridgeLease) SetRange(ipv6 bool, cidr string) {
	if ipv6 {
		b.Ip6Range = cidr
	} else {
		b.IpRange = cidr
	}
}

// Hosts returns the host->address reservation map for the given family,
// creating it if missing.
func (b *BridgeLease) Hosts(ipv6 bool) map[string]string {
	if ipv6 {
		if b.Ip6RangeHosts == nil {
			b.Ip6RangeHosts = map[string]string{}
		}
		return b.Ip6RangeHosts
	}
	if b.IpRangeHosts == nil {
		b.IpRangeHosts = map[string]string{}
	}
	return b.IpRangeHosts
}

// ClearHosts drops every reservation for the given family. Called when the
// range CIDR changes, before any new reservation is made.
func (b *BridgeLease) ClearHosts(ipv6 bool) {
	if ipv6 {
		b.Ip6RangeHosts = map[string]string{}
	} else {
		b.IpRangeHosts = map[string]string{}
	}
}
