package amqp

import (
	"encoding/json"
	"time"
)

// Entry kinds a sync message can refer to.
const (
	KindExpense     = "expense"
	KindIncome      = "income"
	KindBillPayment = "bill_payment"
	KindReserve     = "reserve"
)

// Sync operations.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// LedgerSyncMessage is a lightweight pointer to one ledger entry. It carries
// only the kind, operation and id; the worker fetches the full record from
// the database before exporting it.
type LedgerSyncMessage struct {
	Kind      string    `json:"kind"`
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerSyncMessage(kind, op string, id int64) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		Kind:      kind,
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
