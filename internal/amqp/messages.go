package amqp

import (
	"encoding/json"
	"time"
)

const (
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is a lightweight ledger change notification. It carries only the
// record identity and what happened; consumers fetch current state from
// the store, which stays authoritative.
type Event struct {
	Entity    string    `json:"entity"`
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates a change event stamped with the current time.
func NewEvent(entity string, id int64, action string) Event {
	return Event{
		Entity:    entity,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes.
func EventFromJSON(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
