package service

import "github.com/spec-kit/contracts-service/internal/domain"

// IsPartyToContract reports whether the caller is the client or the
// contractor of the contract. Fails closed on a nil contract or a
// non-positive caller id.
func IsPartyToContract(callerID int64, contract *domain.Contract) bool {
	if callerID <= 0 || contract == nil {
		return false
	}
	return contract.ClientID == callerID || contract.ContractorID == callerID
}

// IsClientOfContract reports whether the caller is the contract's client.
// Only the client may initiate a job payment.
func IsClientOfContract(callerID int64, contract *domain.Contract) bool {
	if callerID <= 0 || contract == nil {
		return false
	}
	return contract.ClientID == callerID
}
