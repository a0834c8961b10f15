package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoplane/support-chat/internal/api/response"
	"github.com/shoplane/support-chat/internal/repository/redis"
	"github.com/shoplane/support-chat/internal/security"
)

type contextKey string

const (
	AgentIDKey    contextKey = "agentID"
	AgentEmailKey contextKey = "agentEmail"
)

// AuthMiddleware guards the admin surface with staff JWT validation
type AuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the bearer token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), AgentIDKey, claims.AgentID)
		ctx = context.WithValue(ctx, AgentEmailKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAgentID gets the authenticated agent ID from context
func GetAgentID(ctx context.Context) (uuid.UUID, bool) {
	agentID, ok := ctx.Value(AgentIDKey).(uuid.UUID)
	return agentID, ok
}

// GetAgentEmail gets the authenticated agent email from context
func GetAgentEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(AgentEmailKey).(string)
	return email, ok
}

// RateLimitMiddleware throttles the public chat endpoints
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting keyed by client IP. Visitors are anonymous, so
// the client address is the only stable key available before a session opens.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, _, resetTime, err := m.rateLimiter.Allow(r.Context(), clientKey(r))
		if err != nil {
			// A broken limiter must not take chat down with it
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Reset", resetTime.UTC().Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey derives the limiter key from the request. RealIP rewrites
// RemoteAddr to a bare IP when a proxy header is present; on direct
// connections RemoteAddr is host:port, and the ephemeral port must not leak
// into the key or every connection gets its own window.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
