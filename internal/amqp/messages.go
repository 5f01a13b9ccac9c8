package amqp

import (
	"encoding/json"
	"time"
)

// RecordChangeMessage announces that a family's records changed for a given
// month. It carries no record payload, consumers re-read the current state
// from the database so a stale or duplicated delivery is harmless.
type RecordChangeMessage struct {
	FamilyID   string    `json:"family_id"`
	Collection string    `json:"collection"`
	Month      string    `json:"month"`
	Timestamp  time.Time `json:"timestamp"`
}

// Collections a change message can refer to.
const (
	CollectionExpenses   = "expenses"
	CollectionIncomes    = "incomes"
	CollectionCategories = "categories"
	CollectionBudgets    = "budgets"
	CollectionGoals      = "goals"
)

func NewRecordChangeMessage(familyID, collection, month string) *RecordChangeMessage {
	return &RecordChangeMessage{
		FamilyID:   familyID,
		Collection: collection,
		Month:      month,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
