package cancelreservation

import (
	"github.com/google/uuid"
)

const commandType = "CancelReservation"

// Command represents a patron giving up a reservation before pickup.
type Command struct {
	ReservationID uuid.UUID
	ActorID       uuid.UUID
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID uuid.UUID, actorID uuid.UUID) Command {
	return Command{
		ReservationID: reservationID,
		ActorID:       actorID,
	}
}
