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

// JobsHandler serves unpaid-job listing and job payment endpoints.
type JobsHandler struct {
	contracts *service.ContractService
	ledger    *service.LedgerService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(contractService *service.ContractService, ledgerService *service.LedgerService) *JobsHandler {
	return &JobsHandler{contracts: contractService, ledger: ledgerService}
}

// ListUnpaid GET /jobs/unpaid.
func (h *JobsHandler) ListUnpaid(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	jobs, err := h.contracts.ListUnpaidJobs(c.UserContext(), caller.ID)
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, dto.FromJob(&jobs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Pay POST /jobs/:job_id/pay. A fresh payment returns 200; repeating the
// call for an already-settled job returns 204 with no body.
func (h *JobsHandler) Pay(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	jobID, err := strconv.ParseInt(c.Params("job_id"), 10, 64)
	if err != nil {
		return apperrors.NewInvalidRequest("job id must be numeric", nil)
	}
	result, err := h.ledger.PayJob(c.UserContext(), jobID, caller.ID)
	if err != nil {
		return err
	}
	if result.Status == service.PaymentAlreadySettled {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": dto.PaymentResponse{
		Status:      string(result.Status),
		JobID:       result.Job.ID,
		Price:       result.Job.Price,
		PaymentDate: result.Job.PaymentDate,
	}})
}
