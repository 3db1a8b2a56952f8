package submitrequest

import (
	"github.com/google/uuid"
)

const commandType = "SubmitBorrowRequest"

// Command represents a patron's intent to borrow an item. It is not bound to
// a specific copy; approval does the binding later.
type Command struct {
	PatronID     uuid.UUID
	ItemID       uuid.UUID
	DurationDays int
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID uuid.UUID, itemID uuid.UUID, durationDays int) Command {
	return Command{
		PatronID:     patronID,
		ItemID:       itemID,
		DurationDays: durationDays,
	}
}
