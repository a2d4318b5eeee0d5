package reconciler

import (
	"raikou/internal/store/lease"
)

type ReconcilerHandler interface {
	ReconcileBridge(st *lease.LeaseState, name string, spec BridgeSpec) error
	ReconcileContainerInterface(st *lease.LeaseState, container string, spec ContainerInterfaceSpec) error
	ReconcileVlanTranslation(spec VlanTranslationSpec) error
	RunPass(st *lease.LeaseState, doc *Document) error
}
