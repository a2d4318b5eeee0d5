package reconciler

import (
	"fmt"
	"log"
	"strings"

	"raikou/internal/utils"
)

// ReconcileVlanTranslation establishes a veth pair whose two ends bridge
// the source and destination VLAN of the mapping on the target bridge.
//
// Pair names derive from a content hash of the literal mapping string, so
// the same mapping always yields the same names and a rerun finds the
// existing pair instead of creating another one.
func (r *Reconciler) ReconcileVlanTranslation(spec VlanTranslationSpec) error {
	srcVlan, dstVlan, _ := strings.Cut(spec.Map, ":")

	pairId := spec.PairId
	if pairId == "" {
		pairId = utils.ShortHash(spec.Map)
	}
	end0 := "v0_" + pairId
	end1 := "v1_" + pairId
	log.Printf("vlan translation %q on %s via %s <--> %s", spec.Map, spec.On, end0, end1)

	exists, err := r.ctl.LinkExists(end0)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.ctl.CreateVethPair(end0, end1); err != nil {
			return err
		}
		if err := r.ctl.SetLinkUp(end0); err != nil {
			return err
		}
		if err := r.ctl.SetLinkUp(end1); err != nil {
			return err
		}
		log.Printf("veth pair created: %s <--> %s", end0, end1)
	}

	ends := []struct {
		name string
		vlan string
	}{
		{end0, srcVlan},
		{end1, dstVlan},
	}
	for _, end := range ends {
		bridge, attached, err := r.ctl.PortBridge(end.name)
		if err != nil {
			return err
		}
		if !attached {
			if err := r.ctl.AttachPort(spec.On, end.name); err != nil {
				return err
			}
			log.Printf("veth %s attached to bridge %s", end.name, spec.On)
			if end.vlan != "" {
				if err := r.ctl.SetPortVlan(spec.On, end.name, end.vlan); err != nil {
					return err
				}
			}
			continue
		}
		if bridge != spec.On {
			// the desired-state document is inconsistent; never resolve
			// this silently
			return fmt.Errorf("%w: %s already a member of %s", ErrVlanTranslationConflict, end.name, bridge)
		}
	}
	return nil
}
