package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"phoenixmart/internal/domain"
	"phoenixmart/internal/logger"
)

const (
	headerUserID       = "X-User-ID"
	headerSessionToken = "X-Session-Token"

	identityKey = "identity"
)

// requestIDMiddleware tags each request with an id, echoing one supplied by
// the caller.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), reqID))
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

func accessLogMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.FromCtx(c.Request.Context(), base).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// identityMiddleware reads the identity established by the out-of-scope auth
// layer. Requests carrying neither header have no cart to act on.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFromHeaders(c)
		if identity.UserID == nil && identity.SessionToken == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "missing identity",
			})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFromHeaders(c *gin.Context) domain.Identity {
	var identity domain.Identity
	if v := c.GetHeader(headerUserID); v != "" {
		identity.UserID = &v
	}
	if v := c.GetHeader(headerSessionToken); v != "" {
		identity.SessionToken = &v
	}
	return identity
}

// cartIdentity returns the single identity the cart operations key on. When
// the auth layer sends both headers (the window right after login, before the
// merge call) the user identity wins.
func cartIdentity(c *gin.Context) domain.Identity {
	identity := c.MustGet(identityKey).(domain.Identity)
	if identity.UserID != nil {
		return domain.Identity{UserID: identity.UserID}
	}
	return domain.Identity{SessionToken: identity.SessionToken}
}

// rateLimitMiddleware keeps one token bucket per client IP.
func rateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	var (
		mu       sync.Mutex
		visitors = make(map[string]*rate.Limiter)
	)
	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if lim, ok := visitors[ip]; ok {
			return lim
		}
		lim := rate.NewLimiter(rate.Limit(rps), burst)
		visitors[ip] = lim
		return lim
	}
	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}
