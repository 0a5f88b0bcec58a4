package middleware

import (
	"context"
	"errors"
	"strings"

	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

const (
	CtxExternalIDKey = "external_user_id"
	CtxUserKey       = "user"
)

// UserEnsurer creates the local profile on first sight of an identity.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, id user.Identity) (user.User, error)
}

type AuthMiddleware struct {
	jwt    jwt.Service
	users  UserEnsurer
	logger logrus.FieldLogger
}

func NewAuthMiddleware(jwtSvc jwt.Service, users UserEnsurer, logger logrus.FieldLogger) *AuthMiddleware {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthMiddleware{jwt: jwtSvc, users: users, logger: logger}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}
		subject := claims.UserID()
		if subject == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		if m.users != nil {
			usr, err := m.users.EnsureUser(c.Context(), user.Identity{
				ExternalUserID: subject,
				Email:          claims.Email,
				Name:           claims.Name,
				ImageURL:       claims.Picture,
			})
			if err != nil {
				m.logger.WithError(err).WithField("subject", subject).Error("[Auth] ensure user failed")
				return NewAppError(fiber.StatusInternalServerError, "", nil, err)
			}
			c.Locals(CtxUserKey, usr)
		}
		c.Locals(CtxExternalIDKey, subject)

		return c.Next()
	}
}

// ExternalID returns the authenticated subject set by AuthMiddleware.
func ExternalID(c fiber.Ctx) (string, bool) {
	id, ok := c.Locals(CtxExternalIDKey).(string)
	return id, ok && id != ""
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
