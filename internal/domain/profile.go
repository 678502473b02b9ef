package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfileType discriminates the two sides of a contract.
type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
)

// Profile is an economic actor holding a monetary balance. The balance is
// mutated only inside a ledger transaction, never by handlers.
type Profile struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Profession string          `json:"profession"`
	Balance    decimal.Decimal `json:"balance"`
	Type       ProfileType     `json:"type"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// FullName joins first and last name for display.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
