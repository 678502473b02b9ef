package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobPaid         EventType = "job_paid"
	EventDepositAccepted EventType = "deposit_accepted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// JobPaidPayload describes a completed job payment.
type JobPaidPayload struct {
	JobID        int64           `json:"job_id"`
	ContractID   int64           `json:"contract_id"`
	ClientID     int64           `json:"client_id"`
	ContractorID int64           `json:"contractor_id"`
	Price        decimal.Decimal `json:"price"`
	PaidAt       time.Time       `json:"paid_at"`
}

// DepositAcceptedPayload describes an accepted balance deposit.
type DepositAcceptedPayload struct {
	ProfileID  int64           `json:"profile_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
}
