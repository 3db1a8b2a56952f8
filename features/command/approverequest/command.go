package approverequest

import (
	"github.com/google/uuid"
)

const commandType = "ApproveBorrowRequest"

// Command represents a librarian approving a pending borrow request.
type Command struct {
	RequestID uuid.UUID
	ActorID   uuid.UUID
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, actorID uuid.UUID) Command {
	return Command{
		RequestID: requestID,
		ActorID:   actorID,
	}
}
