package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contracts-service/internal/api/dto"
	"github.com/spec-kit/contracts-service/internal/auth"
	"github.com/spec-kit/contracts-service/internal/repository"
	apperrors "github.com/spec-kit/contracts-service/pkg/util/errorutil"
)

// AuthHandler issues bearer tokens for profiles. The upstream gateway is the
// actual authenticator; this endpoint only exchanges a known profile id for
// a signed token.
type AuthHandler struct {
	tokens *auth.TokenManager
	store  repository.Store
}

// NewAuthHandler constructs handler.
func NewAuthHandler(tokens *auth.TokenManager, store repository.Store) *AuthHandler {
	return &AuthHandler{tokens: tokens, store: store}
}

// IssueToken POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if req.ProfileID <= 0 {
		return apperrors.NewInvalidRequest("profile_id required", nil)
	}
	if _, err := h.store.FindProfile(c.UserContext(), req.ProfileID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("profile", nil)
		}
		return apperrors.MapError(err)
	}
	token, expiresAt, err := h.tokens.GenerateToken(req.ProfileID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: expiresAt}})
}
