package orchestrator

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"raikou/internal/config"
	"raikou/internal/core/reconciler"
	"raikou/internal/store/lease"
	"raikou/internal/utils"
)

// ErrValidation marks a request rejected before it reached the data
// plane. The management API maps it to a client error.
var ErrValidation = errors.New("validation failed")

// maxPairIdLength keeps the derived veth names v0_<id> and v1_<id>
// inside the kernel's 15 byte interface name limit.
const maxPairIdLength = 8

func NewService(store lease.LeaseStoreHandler, rec reconciler.ReconcilerHandler, configPath string) *Service {
	return &Service{
		store:      store,
		reconciler: rec,
		configPath: configPath,
		events:     newPassBroadcaster(),
	}
}

// Service drives reconciliation passes and the scoped mutations exposed
// by the management API. Every operation loads the lease state, runs
// under a single process-wide lock, and persists the state on the way
// out whether or not the operation succeeded, so partial progress is
// never lost.
type Service struct {
	store      lease.LeaseStoreHandler
	reconciler reconciler.ReconcilerHandler
	configPath string
	events     *passBroadcaster

	// one pass or scoped mutation at a time
	mu sync.Mutex
}

func (s *Service) RunPassFromFile() error {
	doc, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("loading desired state: %w", err)
	}
	return s.RunPass(doc)
}

func (s *Service) RunPass(doc *reconciler.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		return err
	}
	st.LastPassId = utils.NewUlid()
	log.Printf("[*] reconciliation pass %s started", st.LastPassId)
	s.events.publish(PassEvent{PassId: st.LastPassId, Type: EventPassStarted})

	passErr := s.reconciler.RunPass(st, doc)
	if saveErr := s.store.Save(st); saveErr != nil {
		if passErr == nil {
			passErr = saveErr
		} else {
			log.Printf("[!] lease state not saved: %v", saveErr)
		}
	}

	switch {
	case errors.Is(passErr, reconciler.ErrBreakerTripped):
		s.events.publish(PassEvent{PassId: st.LastPassId, Type: EventPassSkipped, Error: passErr.Error()})
	case passErr != nil:
		s.events.publish(PassEvent{PassId: st.LastPassId, Type: EventPassFailed, Error: passErr.Error()})
	default:
		log.Printf("[*] reconciliation pass %s finished", st.LastPassId)
		s.events.publish(PassEvent{PassId: st.LastPassId, Type: EventPassSucceeded})
	}
	return passErr
}

// AddBridge reconciles a single bridge outside a full pass.
func (s *Service) AddBridge(name string, spec reconciler.BridgeSpec) error {
	if name == "" {
		return fmt.Errorf("%w: bridge name is mandatory", ErrValidation)
	}
	for _, parent := range spec.Parents {
		if err := config.ValidateParent(parent); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		return err
	}
	if entry, ok := st.Bridges[name]; ok {
		for _, parent := range spec.Parents {
			if _, dup := entry.Parents[parent.Iface]; dup {
				return fmt.Errorf("%w: parent %s already attached to bridge %s", ErrValidation, parent.Iface, name)
			}
		}
	}
	opErr := s.reconciler.ReconcileBridge(st, name, spec)
	if saveErr := s.store.Save(st); saveErr != nil && opErr == nil {
		opErr = saveErr
	}
	return opErr
}

// AddContainerInterface reconciles one container interface outside a
// full pass.
func (s *Service) AddContainerInterface(container string, spec reconciler.ContainerInterfaceSpec) error {
	if container == "" {
		return fmt.Errorf("%w: container name is mandatory", ErrValidation)
	}
	if err := config.ValidateContainerInterface(spec); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		return err
	}
	opErr := s.reconciler.ReconcileContainerInterface(st, container, spec)
	if saveErr := s.store.Save(st); saveErr != nil && opErr == nil {
		opErr = saveErr
	}
	return opErr
}

// AddVethPair establishes a VLAN translation pair outside a full pass.
// Translation pairs keep no lease record, so only the control plane is
// touched.
func (s *Service) AddVethPair(spec reconciler.VlanTranslationSpec) error {
	if err := config.ValidateVlanTranslation(spec); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(spec.PairId) > maxPairIdLength {
		return fmt.Errorf("%w: pair id %q longer than %d characters", ErrValidation, spec.PairId, maxPairIdLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.ReconcileVlanTranslation(spec)
}

// Lease returns the persisted lease state for inspection.
func (s *Service) Lease() (*lease.LeaseState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

func (s *Service) Subscribe() (<-chan PassEvent, func()) {
	return s.events.subscribe()
}
