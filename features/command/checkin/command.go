package checkin

import (
	"github.com/google/uuid"
)

const commandType = "CheckInReservation"

// Command represents a patron presenting their pickup secret at the desk to
// turn a reservation into a loan.
type Command struct {
	ReservationID   uuid.UUID
	PresentedSecret string
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID uuid.UUID, presentedSecret string) Command {
	return Command{
		ReservationID:   reservationID,
		PresentedSecret: presentedSecret,
	}
}
