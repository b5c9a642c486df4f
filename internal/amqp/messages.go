package amqp

import (
	"encoding/json"
	"time"
)

// EventKind tags what happened to a transaction.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// TransactionEvent is published for every ledger write. It carries enough of
// the row for deleted transactions to stay auditable after the row is gone.
type TransactionEvent struct {
	Kind        EventKind `json:"kind"`
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	WalletID    int64     `json:"wallet_id,omitempty"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionEvent builds an event stamped with the current time.
func NewTransactionEvent(kind EventKind, id, userID, walletID int64, category string, amountCents int64) *TransactionEvent {
	return &TransactionEvent{
		Kind:        kind,
		ID:          id,
		UserID:      userID,
		WalletID:    walletID,
		Category:    category,
		AmountCents: amountCents,
		Timestamp:   time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON parses an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
