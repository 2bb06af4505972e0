package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds carried on the sync queue.
const (
	KindPurchase = "purchase"
	KindBalance  = "balance"
)

// SyncMessage asks the worker to mirror one local row to the spreadsheet.
// Purchases are referenced by SQLite row ID, ledger rows by month key; the
// worker fetches the full row from the database.
type SyncMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id,omitempty"`
	Month     string    `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPurchaseSyncMessage creates a sync request for a logged purchase.
func NewPurchaseSyncMessage(id int64) *SyncMessage {
	return &SyncMessage{Kind: KindPurchase, ID: id, Timestamp: time.Now()}
}

// NewBalanceSyncMessage creates a sync request for a roll-over ledger row.
func NewBalanceSyncMessage(month string) *SyncMessage {
	return &SyncMessage{Kind: KindBalance, Month: month, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes.
func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncMessageFromJSON creates a message from JSON bytes.
func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
