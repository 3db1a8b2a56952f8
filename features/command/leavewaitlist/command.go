package leavewaitlist

import (
	"github.com/google/uuid"
)

const commandType = "LeaveWaitlist"

// Command represents a patron withdrawing their place in an item's queue.
type Command struct {
	PatronID uuid.UUID
	ItemID   uuid.UUID
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID uuid.UUID, itemID uuid.UUID) Command {
	return Command{
		PatronID: patronID,
		ItemID:   itemID,
	}
}
