// Package httpkit is the gin glue shared by every module: middleware, the
// error envelope and the authenticated identity.
package httpkit

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"usittel_backend/platform/apperr"
	"usittel_backend/platform/config"
	"usittel_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextUserIDKey holds the uuid of the authenticated operator.
	ContextUserIDKey = "userID"
	// ContextRolesKey holds the operator's roles as []string.
	ContextRolesKey = "roles"
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 64
)

// RequestID propagates the caller's X-Request-ID or assigns a new uuid, and
// stores it on the request context for logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.RequestIDKey, id))
		c.Next()
	}
}

// RequestLogger logs every request once it has been served. Errors recorded
// with c.Error, such as untyped errors seen by HandleError, are logged too.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		reqLog := log.WithContext(c.Request.Context())
		status := c.Writer.Status()
		reqLog.HTTPRequest(c.Request.Method, path, status, time.Since(start), c.ClientIP())
		if err := c.Errors.Last(); err != nil {
			reqLog.HTTPError(c.Request.Method, path, status, err.Err, c.ClientIP())
		}
	}
}

// SecurityHeaders sets the headers every JSON response carries. HSTS is only
// sent over TLS.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	if log == nil {
		log = logger.Discard()
	}
	return &IPRateLimiter{rate: r, burst: burst, log: log}
}

func (i *IPRateLimiter) limiter(ip string) *rate.Limiter {
	if l, ok := i.limiters.Load(ip); ok {
		return l.(*rate.Limiter)
	}
	l, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return l.(*rate.Limiter)
}

// RateLimit rejects requests over the per-IP budget with 429 and a
// Retry-After hint in seconds.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	retryAfter := "60"
	if i.rate > 0 {
		retryAfter = strconv.Itoa(max(1, int(1/float64(i.rate))))
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.limiter(ip).Allow() {
			i.log.WithContext(c.Request.Context()).RateLimitExceeded(ip, c.Request.URL.Path)
			c.Header("Retry-After", retryAfter)
			HandleError(c, apperr.TooManyRequests("rate limit exceeded"))
			return
		}
		c.Next()
	}
}

// accessClaims is the payload of an admin access token.
type accessClaims struct {
	jwt.RegisteredClaims
	Type  string   `json:"type"`
	Roles []string `json:"roles"`
}

var errNotAccessToken = errors.New("not an access token")

// AuthRequired accepts an HMAC-signed access token from the Authorization
// Bearer header and stores the operator's id and roles on the context.
func AuthRequired(cfg config.JWTConfig) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}), jwt.WithExpirationRequired())
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			HandleError(c, apperr.Unauthorized("missing token"))
			return
		}

		userID, roles, err := parseAccessToken(parser, raw, cfg.GetJWTAccessSecret())
		if err != nil {
			HandleError(c, apperr.Unauthorized("invalid token"))
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRolesKey, roles)
		c.Next()
	}
}

// RequireRole lets through operators holding role; it must run after
// AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok || !id.HasRole(role) {
			HandleError(c, apperr.Forbidden("forbidden"))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	return raw, found && raw != ""
}

func parseAccessToken(parser *jwt.Parser, raw, secret string) (uuid.UUID, []string, error) {
	var claims accessClaims
	if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		return uuid.Nil, nil, err
	}
	if claims.Type != "access" {
		return uuid.Nil, nil, errNotAccessToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if claims.Roles == nil {
		claims.Roles = []string{}
	}
	return userID, claims.Roles, nil
}
