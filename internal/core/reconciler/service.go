package reconciler

import (
	"raikou/internal/dataplane"
	"raikou/internal/runtime"
)

func NewReconciler(ctl dataplane.ControlPlane, rt runtime.RuntimeHandler, basicBridge bool) *Reconciler {
	return &Reconciler{
		ctl:         ctl,
		runtime:     rt,
		basicBridge: basicBridge,
	}
}

// Reconciler pushes a desired-state document onto the live data plane.
// All mutations go through the control plane and runtime collaborators;
// the lease state passed into each call provides the idempotence record.
//
// Execution is strictly sequential: one pass at a time, one item at a
// time, no mid-pass cancellation.
type Reconciler struct {
	ctl     dataplane.ControlPlane
	runtime runtime.RuntimeHandler

	// basicBridge is set in Linux-bridge mode, where VLAN translation
	// pairs are not supported and are skipped by the pass.
	basicBridge bool
}
