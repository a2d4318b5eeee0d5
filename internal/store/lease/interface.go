package lease

type LeaseStoreHandler interface {
	Load() (*LeaseState, error)
	Save(st *LeaseState) error
}
