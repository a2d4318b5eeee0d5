package reconciler

import (
	"fmt"
	"log"
	"maps"
	"slices"

	"raikou/internal/store/lease"
)

// maxConsecutiveFailures is the circuit breaker threshold: once this many
// passes in a row have failed, further passes refuse to touch the host
// network until the lease store is cleared.
const maxConsecutiveFailures = 2

// RunPass reconciles the whole document in order: bridges, container
// interfaces, then VLAN translations. The first error aborts the
// remaining sequence and increments the persisted failure counter; a
// clean pass resets it. The caller owns loading and saving the lease
// state and must save it on every exit path.
func (r *Reconciler) RunPass(st *lease.LeaseState, doc *Document) error {
	if st.Failed >= maxConsecutiveFailures {
		return fmt.Errorf("%w: %d consecutive failures", ErrBreakerTripped, st.Failed)
	}

	if err := r.runSequence(st, doc); err != nil {
		st.Failed++
		log.Printf("reconciliation pass failed: %v", err)
		return err
	}
	st.Failed = 0
	return nil
}

func (r *Reconciler) runSequence(st *lease.LeaseState, doc *Document) error {
	for _, name := range slices.Sorted(maps.Keys(doc.Bridges)) {
		if err := r.ReconcileBridge(st, name, doc.Bridges[name]); err != nil {
			return err
		}
	}

	for _, container := range slices.Sorted(maps.Keys(doc.Containers)) {
		for _, spec := range doc.Containers[container] {
			if err := r.ReconcileContainerInterface(st, container, spec); err != nil {
				return err
			}
		}
	}

	// plain kernel bridges have no VLAN translation support
	if !r.basicBridge {
		for _, translation := range doc.VlanTranslations {
			if err := r.ReconcileVlanTranslation(translation); err != nil {
				return err
			}
		}
	}
	return nil
}
