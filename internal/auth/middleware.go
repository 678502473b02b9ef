package auth

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contracts-service/internal/domain"
	"github.com/spec-kit/contracts-service/internal/persistence"
	"github.com/spec-kit/contracts-service/internal/repository"
	apperrors "github.com/spec-kit/contracts-service/pkg/util/errorutil"
)

const callerKey = "caller_profile"

// ProfileHeader is the legacy identity header accepted alongside bearer
// tokens. The upstream gateway is trusted to have authenticated the caller.
const ProfileHeader = "profile_id"

// CallerIdentity resolves the authenticated profile for each request from a
// bearer token or the legacy profile_id header, reading through the redis
// profile cache.
type CallerIdentity struct {
	tokens *TokenManager
	store  repository.Store
	cache  *persistence.ProfileCache
}

// NewCallerIdentity constructs the middleware.
func NewCallerIdentity(tokens *TokenManager, store repository.Store, cache *persistence.ProfileCache) *CallerIdentity {
	return &CallerIdentity{tokens: tokens, store: store, cache: cache}
}

// Handle enforces caller identity for protected routes.
func (m *CallerIdentity) Handle(c *fiber.Ctx) error {
	profileID, err := m.resolveProfileID(c)
	if err != nil {
		return err
	}

	profile := m.cache.Get(c.UserContext(), profileID)
	if profile == nil {
		profile, err = m.store.FindProfile(c.UserContext(), profileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewUnauthorized("unknown profile")
			}
			return apperrors.MapError(err)
		}
		m.cache.Set(c.UserContext(), profile)
	}

	c.Locals(callerKey, profile)
	return c.Next()
}

func (m *CallerIdentity) resolveProfileID(c *fiber.Ctx) (int64, error) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return 0, apperrors.NewUnauthorized("invalid authorization header")
		}
		claims, err := m.tokens.ParseToken(parts[1])
		if err != nil {
			return 0, apperrors.NewUnauthorized("invalid token")
		}
		return claims.ProfileID, nil
	}

	if raw := c.Get(ProfileHeader); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return 0, apperrors.NewUnauthorized("invalid profile_id header")
		}
		return id, nil
	}

	return 0, apperrors.NewUnauthorized("missing caller identity")
}

// CallerFromContext retrieves the authenticated profile.
func CallerFromContext(c *fiber.Ctx) (*domain.Profile, bool) {
	val := c.Locals(callerKey)
	if val == nil {
		return nil, false
	}
	profile, ok := val.(*domain.Profile)
	return profile, ok
}
