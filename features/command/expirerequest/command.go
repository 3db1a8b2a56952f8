package expirerequest

import (
	"github.com/google/uuid"
)

const commandType = "ExpireBorrowRequest"

// Command forces the terminal expired transition on a borrow request whose
// deadline has passed. Issued by the expiry sweeper, never by an actor.
type Command struct {
	RequestID uuid.UUID
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID) Command {
	return Command{
		RequestID: requestID,
	}
}
