package failhandover

import (
	"github.com/google/uuid"
)

const commandType = "FailHandover"

// Command represents a desk clerk recording that a pickup could not be
// completed.
type Command struct {
	ReservationID uuid.UUID
	ActorID       uuid.UUID
	Reason        string
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID uuid.UUID, actorID uuid.UUID, reason string) Command {
	return Command{
		ReservationID: reservationID,
		ActorID:       actorID,
		Reason:        reason,
	}
}
