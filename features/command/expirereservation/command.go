package expirereservation

import (
	"github.com/google/uuid"
)

const commandType = "ExpireReservation"

// Command forces the terminal expired transition on a reservation whose pickup
// window has closed. Issued by the expiry sweeper, never by an actor.
type Command struct {
	ReservationID uuid.UUID
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID uuid.UUID) Command {
	return Command{
		ReservationID: reservationID,
	}
}
