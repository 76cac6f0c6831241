package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor context keys and headers
const (
	JWTClaimsKey  = "jwt_claims"
	ActorIDKey    = "actor_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// ActorHeader names the acting user when header identity is allowed
	ActorHeader = "X-User-ID"
)

// ActorConfig holds configuration for the actor middleware
type ActorConfig struct {
	// JWTService validates bearer tokens
	JWTService *auth.JWTService
	// AllowUserHeader accepts X-User-ID when no bearer token is sent.
	// Must stay false in production.
	AllowUserHeader bool
	// SkipPaths are paths that don't require an actor
	SkipPaths []string
	Logger    *zap.Logger
}

// Actor resolves the acting user of every request from a bearer token
// (claim user_id) or, when allowed, from X-User-ID. Requests without a
// resolvable actor are rejected with 401.
func Actor(cfg ActorConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		actorID, err := resolveActor(c, cfg)
		if err != nil {
			log.Warn("actor authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			)
			abortUnauthorized(c, err)
			return
		}

		c.Set(ActorIDKey, actorID)
		c.Request = c.Request.WithContext(logger.WithActorID(c.Request.Context(), actorID.String()))
		c.Next()
	}
}

func resolveActor(c *gin.Context, cfg ActorConfig) (uuid.UUID, error) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		if cfg.AllowUserHeader {
			if raw := c.GetHeader(ActorHeader); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil || id == uuid.Nil {
					return uuid.Nil, auth.ErrMissingUserID
				}
				return id, nil
			}
		}
		return uuid.Nil, auth.ErrInvalidToken
	}
	if cfg.JWTService == nil || !strings.HasPrefix(authHeader, BearerPrefix) {
		return uuid.Nil, auth.ErrInvalidToken
	}
	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		return uuid.Nil, auth.ErrInvalidToken
	}

	claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	c.Set(JWTClaimsKey, claims)
	return claims.UserUUID()
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrCodeUnauthorized
	message := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	case errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrInvalidClaims):
		message = "Token does not identify a user"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetActorID returns the actor resolved by Actor, or uuid.Nil
func GetActorID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ActorIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetJWTClaims returns the validated claims, or nil when the actor came from a header
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
