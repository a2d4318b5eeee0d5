package orchestrator

import (
	"raikou/internal/core/reconciler"
	"raikou/internal/store/lease"
)

type OrchestratorHandler interface {
	RunPassFromFile() error
	RunPass(doc *reconciler.Document) error
	AddBridge(name string, spec reconciler.BridgeSpec) error
	AddContainerInterface(container string, spec reconciler.ContainerInterfaceSpec) error
	AddVethPair(spec reconciler.VlanTranslationSpec) error
	Lease() (*lease.LeaseState, error)
	Subscribe() (<-chan PassEvent, func())
}
