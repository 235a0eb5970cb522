package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

const actorCtxKey = contextKey("actor")

// ActorClaims are the JWT claims carried by an access token. The subject is
// the user ID; the company claim scopes every data access to one tenant.
type ActorClaims struct {
	Name      string `json:"name"`
	CompanyID string `json:"companyID"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// ParseActorToken validates a token string and extracts the actor identity.
// Shared by the HTTP middleware and the WebSocket handshake.
func ParseActorToken(jwtSecret, tokenString string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return domain.Actor{}, err
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return domain.Actor{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" || claims.CompanyID == "" {
		return domain.Actor{}, errors.New("token missing subject or company claim")
	}
	return domain.Actor{
		UserID:    claims.Subject,
		Name:      claims.Name,
		CompanyID: claims.CompanyID,
		Role:      claims.Role,
	}, nil
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the actor identity in the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		actor, err := ParseActorToken(jwtSecret, parts[1])
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		enrichedLogger := logger.With(
			slog.String("user_id", actor.UserID),
			slog.String("company_id", actor.CompanyID),
		)

		ctx := context.WithValue(c.Request.Context(), actorCtxKey, actor)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActorFromContext retrieves the authenticated actor from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actor, ok := c.Request.Context().Value(actorCtxKey).(domain.Actor)
	return actor, ok
}
