package reconciler

import "errors"

var (
	// ErrInvalidAddress marks a malformed address: missing prefix length,
	// unparseable, wrong family, or outside the bridge's range.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrAddressConflict marks an address already leased to a different
	// host key within the same range.
	ErrAddressConflict = errors.New("address already allocated")

	// ErrRangeExhausted marks a range with no free host address left.
	ErrRangeExhausted = errors.New("address range exhausted")

	// ErrVlanTranslationConflict marks a translation endpoint that is
	// already attached to a different bridge than requested.
	ErrVlanTranslationConflict = errors.New("translation endpoint attached to different bridge")

	// ErrBreakerTripped marks a pass refused because previous passes kept
	// failing. Clearing it requires operator intervention on the lease
	// store.
	ErrBreakerTripped = errors.New("reconciler keeps failing, refusing to modify host network")
)
