package rejectrequest

import (
	"github.com/google/uuid"
)

const commandType = "RejectBorrowRequest"

// Command represents a librarian rejecting a pending borrow request.
type Command struct {
	RequestID uuid.UUID
	ActorID   uuid.UUID
	Reason    string
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, actorID uuid.UUID, reason string) Command {
	return Command{
		RequestID: requestID,
		ActorID:   actorID,
		Reason:    reason,
	}
}
