package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/contracts-service/internal/domain"
)

// DepositRequest is the body of POST /balances/deposit/:userId.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	ProfileID int64 `json:"profile_id"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PaymentResponse reports a freshly applied job payment.
type PaymentResponse struct {
	Status      string          `json:"status"`
	JobID       int64           `json:"job_id"`
	Price       decimal.Decimal `json:"price"`
	PaymentDate *time.Time      `json:"payment_date"`
}

// ContractResponse mirrors the public contract shape.
type ContractResponse struct {
	ID           int64                 `json:"id"`
	Terms        string                `json:"terms"`
	Status       domain.ContractStatus `json:"status"`
	ClientID     int64                 `json:"clientId"`
	ContractorID int64                 `json:"contractorId"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// JobResponse mirrors the public job shape.
type JobResponse struct {
	ID          int64           `json:"id"`
	ContractID  int64           `json:"contractId"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"paymentDate"`
}

// FromContract converts a domain contract.
func FromContract(c *domain.Contract) ContractResponse {
	return ContractResponse{
		ID:           c.ID,
		Terms:        c.Terms,
		Status:       c.Status,
		ClientID:     c.ClientID,
		ContractorID: c.ContractorID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromJob converts a domain job.
func FromJob(j *domain.Job) JobResponse {
	return JobResponse{
		ID:          j.ID,
		ContractID:  j.ContractID,
		Description: j.Description,
		Price:       j.Price,
		Paid:        j.Paid,
		PaymentDate: j.PaymentDate,
	}
}
