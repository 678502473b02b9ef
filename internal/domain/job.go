package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job is a billable unit of work under exactly one contract. A job moves
// unpaid -> paid exactly once; price and payment date are immutable after
// that transition.
type Job struct {
	ID          int64           `json:"id"`
	ContractID  int64           `json:"contractId"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"paymentDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
