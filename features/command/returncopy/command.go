package returncopy

import (
	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
)

const commandType = "ReturnCopy"

// Command represents a copy coming back to the desk, or being declared lost.
// MakeAvailableAfter controls whether the copy rejoins the circulating pool or
// is retired from service; it is ignored for lost copies. FineCollected marks
// any assessed fine as paid on issue, for desks that collect on the spot.
type Command struct {
	BorrowRecordID     uuid.UUID
	ActorID            uuid.UUID
	Condition          core.ReturnCondition
	MakeAvailableAfter bool
	FineCollected      bool
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	borrowRecordID uuid.UUID,
	actorID uuid.UUID,
	condition core.ReturnCondition,
	makeAvailableAfter bool,
	fineCollected bool,
) Command {
	return Command{
		BorrowRecordID:     borrowRecordID,
		ActorID:            actorID,
		Condition:          condition,
		MakeAvailableAfter: makeAvailableAfter,
		FineCollected:      fineCollected,
	}
}
