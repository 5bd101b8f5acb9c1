package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/service"
	"github.com/gin-gonic/gin"
)

const decisionKey = "access_decision"

// Guard turns the bearer credential of a request into an access
// decision. It never rejects a request itself; the inventory service
// enforces the required level for each operation.
type Guard struct {
	tokens      service.TokenService
	revocations service.Revocations
	logger      *slog.Logger
}

// NewGuard creates a Guard. revocations may be nil.
func NewGuard(tokens service.TokenService, revocations service.Revocations, logger *slog.Logger) *Guard {
	return &Guard{
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

// Decide evaluates the value of an Authorization header.
func (g *Guard) Decide(ctx context.Context, authorization string) models.Decision {
	token, ok := BearerToken(authorization)
	if !ok {
		return models.AnonymousDecision
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return models.AnonymousDecision
	}

	if g.revocations != nil {
		revoked, err := g.revocations.IsRevoked(ctx, token)
		if err != nil {
			g.logger.ErrorContext(ctx, "revocation lookup failed", "error", err)
			return models.AnonymousDecision
		}
		if revoked {
			return models.AnonymousDecision
		}
	}

	return models.DecisionFor(claims.Subject, claims.Role)
}

// Middleware attaches the decision to every request.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(decisionKey, g.Decide(c.Request.Context(), c.GetHeader("Authorization")))
		c.Next()
	}
}

// DecisionFrom returns the decision stored by Guard.Middleware, or the
// anonymous decision if the guard did not run.
func DecisionFrom(c *gin.Context) models.Decision {
	if value, ok := c.Get(decisionKey); ok {
		if decision, ok := value.(models.Decision); ok {
			return decision
		}
	}
	return models.AnonymousDecision
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(authorization string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return "", false
	}
	token := strings.TrimSpace(authorization[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
