package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/logging"
	"foodgram/pkg/access"
	"foodgram/pkg/jwt"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		ReadOnlyOrAuthenticated() fiber.Handler
		AdminOnly() fiber.Handler
	}

	middleware struct {
		blacklist jwt.TokenBlacklist
	}
)

func NewMiddleware(blacklist jwt.TokenBlacklist) Middleware {
	return &middleware{blacklist: blacklist}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	})
}

// AuthMiddleware rejects the request unless it carries a valid token.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrAuthenticationNeeded)
		}
		if err := m.authenticate(c, jwtService, token); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}
		return c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through with an empty
// user_id. A token that is present but invalid is still rejected.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			c.Locals("user_id", "")
			c.Locals("role", "")
			return c.Next()
		}
		if err := m.authenticate(c, jwtService, token); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}
		return c.Next()
	}
}

// ReadOnlyOrAuthenticated must run after OptionalAuthMiddleware.
func (m *middleware) ReadOnlyOrAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !access.HasPermission(c.Method(), CallerFrom(c)) {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrAuthenticationNeeded)
		}
		return c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func (m *middleware) AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !domain.IsAdmin(CallerFrom(c).Role) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedProcessRequest, domain.ErrUserNotAllowed)
		}
		return c.Next()
	}
}

func (m *middleware) authenticate(c *fiber.Ctx, jwtService jwt.JWTService, token string) error {
	userID, role, err := jwtService.GetUserIDByToken(token)
	if err != nil {
		return err
	}

	revoked, err := m.blacklist.IsRevoked(c.UserContext(), token)
	if err != nil {
		// redis down: fail closed
		logging.Error().Err(err).Msg("token blacklist lookup failed")
		return domain.ErrTokenInvalid
	}
	if revoked {
		return domain.ErrTokenRevoked
	}

	c.Locals("user_id", userID)
	c.Locals("role", role)
	c.Locals("token", token)
	return nil
}

// bearerToken accepts both "Bearer <jwt>" and "Token <jwt>".
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

// CallerFrom reads the identity set by the auth middlewares. Missing
// locals yield an anonymous caller.
func CallerFrom(c *fiber.Ctx) access.Caller {
	id, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return access.Caller{ID: id, Role: role}
}
