package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contracts-service/internal/api/dto"
	"github.com/spec-kit/contracts-service/internal/auth"
	"github.com/spec-kit/contracts-service/internal/service"
	apperrors "github.com/spec-kit/contracts-service/pkg/util/errorutil"
)

// ContractsHandler serves contract read endpoints.
type ContractsHandler struct {
	service *service.ContractService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(contractService *service.ContractService) *ContractsHandler {
	return &ContractsHandler{service: contractService}
}

// GetContract GET /contracts/:id.
func (h *ContractsHandler) GetContract(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	contractID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewInvalidRequest("contract id must be numeric", nil)
	}
	contract, err := h.service.GetContract(c.UserContext(), caller.ID, contractID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromContract(contract)})
}

// ListContracts GET /contracts.
func (h *ContractsHandler) ListContracts(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	contracts, err := h.service.ListContracts(c.UserContext(), caller.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		items = append(items, dto.FromContract(&contracts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
