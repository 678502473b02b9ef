package domain

import "time"

// ContractStatus enumerates contract lifecycle states.
type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract links one client profile to one contractor profile. Terminated
// contracts are excluded from active listings and from deposit exposure.
type Contract struct {
	ID           int64          `json:"id"`
	Terms        string         `json:"terms"`
	Status       ContractStatus `json:"status"`
	ClientID     int64          `json:"clientId"`
	ContractorID int64          `json:"contractorId"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// IsTerminated reports whether the contract has been terminated.
func (c *Contract) IsTerminated() bool {
	return c.Status == ContractStatusTerminated
}
