package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyStatus is the lifecycle status of a physical copy.
type CopyStatus string

// Copy lifecycle statuses.
const (
	CopyAvailable  CopyStatus = "available"
	CopyReserved   CopyStatus = "reserved"
	CopyCheckedOut CopyStatus = "checked_out"
	CopyLost       CopyStatus = "lost"
	CopyRetired    CopyStatus = "retired"
)

// CopyCondition is the physical condition a copy is kept in.
type CopyCondition string

// Copy conditions.
const (
	ConditionGood CopyCondition = "good"
	ConditionPoor CopyCondition = "poor"
)

// Copy represents one physical circulating unit of a catalog item. It is owned
// exclusively by the inventory ledger and mutated only through conditional
// status transitions, so its status and the active reservation or loan
// referencing it always agree.
type Copy struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	Condition  CopyCondition
	Status     CopyStatus
	AcquiredAt time.Time
}

// copyTransitions lists the permitted status changes. Everything else is a
// stale precondition and must surface as a conflict, not a silent write.
var copyTransitions = map[CopyStatus][]CopyStatus{
	CopyAvailable:  {CopyReserved, CopyRetired, CopyLost},
	CopyReserved:   {CopyCheckedOut, CopyAvailable},
	CopyCheckedOut: {CopyAvailable, CopyRetired, CopyLost},
	CopyLost:       {CopyAvailable},
	CopyRetired:    {},
}

// CanTransition reports whether a copy may move from its current status to the target.
func (c Copy) CanTransition(to CopyStatus) bool {
	for _, allowed := range copyTransitions[c.Status] {
		if allowed == to {
			return true
		}
	}

	return false
}

// InService reports whether the copy still belongs to the circulating pool.
func (c Copy) InService() bool {
	return c.Status != CopyRetired && c.Status != CopyLost
}
