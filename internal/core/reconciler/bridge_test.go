package reconciler

import (
	"errors"
	"testing"

	"raikou/internal/dataplane"
	"raikou/internal/store/lease"
)

func newBridgeFixture() (*Reconciler, *fakeControlPlane, *lease.LeaseState) {
	rt := newFakeRuntime()
	ctl := newFakeControlPlane(rt)
	return NewReconciler(ctl, rt, false), ctl, &lease.LeaseState{}
}

func TestReconcileBridgeAssignsAddress(t *testing.T) {
	rec, ctl, st := newBridgeFixture()

	spec := BridgeSpec{IpRange: "10.0.0.0/24", IpAddress: "10.0.0.1/24"}
	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ctl.bridges["br0"] {
		t.Fatalf("bridge not created")
	}
	if got := st.Bridge("br0").Hosts(false)["br0"]; got != "10.0.0.1/24" {
		t.Fatalf("expected self reservation, got %q", got)
	}
	if ctl.count("AddAddress br0 10.0.0.1/24") != 1 {
		t.Fatalf("address not pushed: %v", ctl.calls)
	}
}

func TestReconcileBridgeSecondPassAddsNothing(t *testing.T) {
	rec, ctl, st := newBridgeFixture()
	spec := BridgeSpec{IpRange: "10.0.0.0/24", IpAddress: "10.0.0.1/24"}

	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if n := ctl.count("AddAddress"); n != 1 {
		t.Fatalf("expected exactly one AddAddress, got %d: %v", n, ctl.calls)
	}
}

func TestReconcileBridgeDriftRecovery(t *testing.T) {
	rec, ctl, st := newBridgeFixture()
	spec := BridgeSpec{IpRange: "10.0.0.0/24", IpAddress: "10.0.0.1/24"}

	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// someone removed the address behind the reconciler's back
	ctl.addrs["br0"] = nil

	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if n := ctl.count("AddAddress"); n != 2 {
		t.Fatalf("drift not recovered, AddAddress count %d", n)
	}
}

func TestReconcileBridgeRangeChange(t *testing.T) {
	rec, ctl, st := newBridgeFixture()

	if err := rec.ReconcileBridge(st, "br0", BridgeSpec{IpRange: "10.0.0.0/24", IpAddress: "10.0.0.1/24"}); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// new range: old reservations are invalid and the address moves
	if err := rec.ReconcileBridge(st, "br0", BridgeSpec{IpRange: "10.0.1.0/24", IpAddress: "10.0.1.1/24"}); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	entry := st.Bridge("br0")
	if entry.Range(false) != "10.0.1.0/24" {
		t.Fatalf("range not updated: %q", entry.Range(false))
	}
	hosts := entry.Hosts(false)
	if len(hosts) != 1 || hosts["br0"] != "10.0.1.1/24" {
		t.Fatalf("unexpected reservations after range change: %v", hosts)
	}
	if ctl.count("FlushAddresses br0 -4") == 0 {
		t.Fatalf("old address not flushed: %v", ctl.calls)
	}
	if got := ctl.addrs["br0"]; len(got) != 1 || got[0] != "10.0.1.1/24" {
		t.Fatalf("live addresses wrong after range change: %v", got)
	}
}

func TestReconcileBridgeAddressConflict(t *testing.T) {
	rec, _, st := newBridgeFixture()

	// the desired bridge address is already leased to a container
	st.Bridge("br0").SetRange(false, "10.0.0.0/24")
	st.Bridge("br0").Hosts(false)["c1"] = "10.0.0.1/24"

	err := rec.ReconcileBridge(st, "br0", BridgeSpec{IpRange: "10.0.0.0/24", IpAddress: "10.0.0.1/24"})
	if !errors.Is(err, ErrAddressConflict) {
		t.Fatalf("expected ErrAddressConflict, got %v", err)
	}
}

func TestReconcileBridgeOutOfRangeAddress(t *testing.T) {
	rec, _, st := newBridgeFixture()

	err := rec.ReconcileBridge(st, "br0", BridgeSpec{IpRange: "10.0.0.0/24", IpAddress: "192.168.0.1/24"})
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestReconcileBridgeEmptyAddressFlushes(t *testing.T) {
	rec, ctl, st := newBridgeFixture()

	if err := rec.ReconcileBridge(st, "br0", BridgeSpec{IpRange: "10.0.0.0/24", IpAddress: "10.0.0.1/24"}); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := rec.ReconcileBridge(st, "br0", BridgeSpec{IpRange: "10.0.0.0/24"}); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if _, ok := st.Bridge("br0").Hosts(false)["br0"]; ok {
		t.Fatalf("self reservation not dropped")
	}
	if len(ctl.addrs["br0"]) != 0 {
		t.Fatalf("live address not flushed: %v", ctl.addrs["br0"])
	}
}

func TestReconcileParentAttachAndVlan(t *testing.T) {
	rec, ctl, st := newBridgeFixture()

	spec := BridgeSpec{Parents: []ParentSpec{{Iface: "eth1", Trunk: "100,200", Native: "300"}}}
	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	if ctl.ports["eth1"] != "br0" {
		t.Fatalf("parent not attached: %v", ctl.ports)
	}
	if ctl.count("SetPortTrunk br0 eth1 100,200") != 1 {
		t.Fatalf("trunk not applied: %v", ctl.calls)
	}
	if ctl.count("SetPortNative br0 eth1 300") != 1 {
		t.Fatalf("native vlan not applied: %v", ctl.calls)
	}

	// unchanged settings must not be re-pushed
	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if ctl.count("SetPortTrunk") != 1 || ctl.count("SetPortNative") != 1 {
		t.Fatalf("vlan settings re-pushed on unchanged pass: %v", ctl.calls)
	}

	// a changed trunk is pushed exactly once more
	spec.Parents[0].Trunk = "100"
	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("third pass: %v", err)
	}
	if ctl.count("SetPortTrunk br0 eth1 100") != 1 {
		t.Fatalf("changed trunk not applied: %v", ctl.calls)
	}
}

func TestReconcileParentReattachesFromOtherBridge(t *testing.T) {
	rec, ctl, st := newBridgeFixture()
	ctl.ports["eth1"] = "br-old"

	spec := BridgeSpec{Parents: []ParentSpec{{Iface: "eth1"}}}
	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctl.count("DetachPort eth1") != 1 {
		t.Fatalf("stale membership not torn down: %v", ctl.calls)
	}
	if ctl.ports["eth1"] != "br0" {
		t.Fatalf("parent not reattached: %v", ctl.ports)
	}
}

func TestReconcileParentUsbAlias(t *testing.T) {
	rec, ctl, st := newBridgeFixture()
	ctl.usb["1-1"] = []string{"enx0a1b2c"}

	spec := BridgeSpec{Parents: []ParentSpec{{Iface: "usb:1-1"}}}
	if err := rec.ReconcileBridge(st, "br0", spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctl.ports["enx0a1b2c"] != "br0" {
		t.Fatalf("resolved usb parent not attached: %v", ctl.ports)
	}
	// the cache is keyed by the resolved name, not the alias
	if _, ok := st.Bridge("br0").Parents["enx0a1b2c"]; !ok {
		t.Fatalf("cache keyed wrong: %v", st.Bridge("br0").Parents)
	}
}

func TestReconcileParentUsbAliasAmbiguous(t *testing.T) {
	rec, ctl, st := newBridgeFixture()
	ctl.usb["1-1"] = []string{"enx0a1b2c", "enx0d1e2f"}

	spec := BridgeSpec{Parents: []ParentSpec{{Iface: "usb:1-1"}}}
	err := rec.ReconcileBridge(st, "br0", spec)
	if !errors.Is(err, dataplane.ErrAmbiguousUsbParent) {
		t.Fatalf("expected ErrAmbiguousUsbParent, got %v", err)
	}
}
