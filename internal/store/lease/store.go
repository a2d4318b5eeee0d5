package lease

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"raikou/internal/utils"
)

func NewLeaseStore(path string) *LeaseStore {
	return &LeaseStore{
		path:              path,
		filesystemHandler: utils.NewFilesystemExecutor(),
	}
}

type LeaseStore struct {
	path              string
	mu                sync.Mutex
	filesystemHandler utils.FilesystemHandler
}

// Load reads the lease document, returning an empty state when the file
// does not exist yet.
func (s *LeaseStore) Load() (*LeaseState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.loadOrInit()
}

// Save writes the lease document atomically with stable indentation so
// operators can inspect last-known state after a failed pass.
func (s *LeaseStore) Save(st *LeaseState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	return s.atomicSave(st)
}

func (s *LeaseStore) lock() (func(), error) {
	lockPath := s.path + ".lock"
	if err := s.filesystemHandler.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}

	lf, err := s.filesystemHandler.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	if err := s.filesystemHandler.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
		lf.Close()
		return nil, err
	}
	return func() {
		_ = s.filesystemHandler.Flock(int(lf.Fd()), syscall.LOCK_UN)
		lf.Close()
	}, nil
}

func (s *LeaseStore) loadOrInit() (*LeaseState, error) {
	b, err := s.filesystemHandler.ReadFile(s.path)
	if err != nil {
		if s.filesystemHandler.IsNotExist(err) {
			// lease file not written yet
			return &LeaseState{Bridges: map[string]*BridgeLease{}}, nil
		}
		return nil, err
	}

	var st LeaseState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("lease state json broken: %w", err)
	}
	if st.Bridges == nil {
		st.Bridges = map[string]*BridgeLease{}
	}
	return &st, nil
}

func (s *LeaseStore) atomicSave(st *LeaseState) error {
	tmp := s.path + ".tmp"

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	f, err := s.filesystemHandler.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return s.filesystemHandler.Rename(tmp, s.path)
}
