package settlefine

import (
	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
)

const commandType = "SettleFine"

// Command represents settling a fine, either as paid or as waived.
type Command struct {
	FineID  uuid.UUID
	ActorID uuid.UUID
	Outcome core.FineStatus
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildMarkPaidCommand creates a Command recording that the fine was paid.
func BuildMarkPaidCommand(fineID uuid.UUID, actorID uuid.UUID) Command {
	return Command{
		FineID:  fineID,
		ActorID: actorID,
		Outcome: core.FinePaid,
	}
}

// BuildWaiveCommand creates a Command waiving the fine.
func BuildWaiveCommand(fineID uuid.UUID, actorID uuid.UUID) Command {
	return Command{
		FineID:  fineID,
		ActorID: actorID,
		Outcome: core.FineWaived,
	}
}
