package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/repository"
	apperrors "github.com/orcafacil/api/pkg/util"
)

const principalKey = "auth_account"

// Middleware validates bearer tokens against the auth subject and loads the
// referenced account into the request context.
type Middleware struct {
	tokens   *TokenService
	accounts repository.AccountRepository
	logger   *zap.Logger
}

// NewMiddleware constructs the authentication gate.
func NewMiddleware(tokens *TokenService, accounts repository.AccountRepository, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts, logger: logger}
}

// Handle enforces authentication for protected routes. Every failure path
// is logged with its full cause; the client only sees a generic 401.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return m.reject(c, ErrMissingToken, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return m.reject(c, ErrInvalidToken, "malformed authorization header")
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return m.reject(c, err, "token verification failed")
	}

	account, err := m.accounts.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m.reject(c, ErrAccountNotFound, "token references unknown account")
		}
		return apperrors.NewPersistenceFailure("GetByID", err).In("auth.Middleware", "Handle")
	}

	c.Locals(principalKey, account)
	return c.Next()
}

func (m *Middleware) reject(c *fiber.Ctx, cause error, message string) error {
	m.logger.Warn("authentication failed",
		zap.String("component", "auth.Middleware"),
		zap.String("operation", "Handle"),
		zap.String("path", c.Path()),
		zap.Error(cause))
	return apperrors.NewUnauthorized(message).In("auth.Middleware", "Handle")
}

// AccountFromContext retrieves the authenticated account.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}
