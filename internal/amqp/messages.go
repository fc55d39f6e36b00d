package amqp

import (
	"encoding/json"
	"time"
)

// Entities named in ledger change messages.
const (
	EntityAccount         = "account"
	EntityTransaction     = "transaction"
	EntityCard            = "card"
	EntityCardTransaction = "card_transaction"
	EntityInvoice         = "invoice"
	EntityCategory        = "category"
	EntitySnapshot        = "snapshot"
)

// LedgerChangedMessage announces that source records changed. It carries ids
// only; consumers reload whatever they need from the store.
type LedgerChangedMessage struct {
	Entity    string    `json:"entity"`
	IDs       []string  `json:"ids,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(entity string, ids []string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Entity:    entity,
		IDs:       ids,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
