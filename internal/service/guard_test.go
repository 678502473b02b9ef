package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/contracts-service/internal/domain"
)

func TestIsPartyToContract(t *testing.T) {
	contract := &domain.Contract{ID: 1, ClientID: 7, ContractorID: 8}

	tests := []struct {
		name     string
		callerID int64
		contract *domain.Contract
		want     bool
	}{
		{"client is party", 7, contract, true},
		{"contractor is party", 8, contract, true},
		{"stranger is not party", 9, contract, false},
		{"zero caller fails closed", 0, contract, false},
		{"negative caller fails closed", -1, contract, false},
		{"nil contract fails closed", 7, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPartyToContract(tt.callerID, tt.contract))
		})
	}
}

func TestIsClientOfContract(t *testing.T) {
	contract := &domain.Contract{ID: 1, ClientID: 7, ContractorID: 8}

	tests := []struct {
		name     string
		callerID int64
		contract *domain.Contract
		want     bool
	}{
		{"client may pay", 7, contract, true},
		{"contractor may not pay", 8, contract, false},
		{"stranger may not pay", 9, contract, false},
		{"zero caller fails closed", 0, contract, false},
		{"nil contract fails closed", 7, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientOfContract(tt.callerID, tt.contract))
		})
	}
}
