package core

import "errors"

var errInvalidPolicy = errors.New("policy snapshot has non-positive expiry windows")

// Policy is the read-only snapshot of persisted configuration consumed by the
// circulation engine. It is supplied by an external policy source and never
// written by this module.
type Policy struct {
	LateFeePerDay Cents
	DamagedFee    Cents
	LostFee       Cents

	RequestExpiryDays     int
	ReservationExpiryDays int

	MinReputationRequired int
	MaxBorrowItems        int

	ReputationLossOnCancel int
	ReputationLossOnExpire int
}

// Validate reports whether the snapshot is usable. Fee and penalty magnitudes
// of zero are legal (a library may simply not fine); expiry windows are not.
func (p Policy) Validate() error {
	if p.RequestExpiryDays <= 0 || p.ReservationExpiryDays <= 0 {
		return errInvalidPolicy
	}

	return nil
}
