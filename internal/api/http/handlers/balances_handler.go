package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contracts-service/internal/api/dto"
	"github.com/spec-kit/contracts-service/internal/auth"
	"github.com/spec-kit/contracts-service/internal/service"
	apperrors "github.com/spec-kit/contracts-service/pkg/util/errorutil"
)

// BalancesHandler serves the deposit endpoint.
type BalancesHandler struct {
	ledger *service.LedgerService
}

// NewBalancesHandler constructs handler.
func NewBalancesHandler(ledgerService *service.LedgerService) *BalancesHandler {
	return &BalancesHandler{ledger: ledgerService}
}

// Deposit POST /balances/deposit/:userId.
func (h *BalancesHandler) Deposit(c *fiber.Ctx) error {
	if _, ok := auth.CallerFromContext(c); !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	targetID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return apperrors.NewInvalidRequest("user id must be numeric", nil)
	}
	var req dto.DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if _, err := h.ledger.Deposit(c.UserContext(), targetID, req.Amount); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
