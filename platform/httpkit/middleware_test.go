package httpkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"usittel_backend/platform/apperr"
	"usittel_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testSecret = "test-secret"

type jwtConfig struct{}

func (jwtConfig) GetJWTAccessSecret() string { return testSecret }

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func adminEngine() *gin.Engine {
	r := gin.New()
	r.GET("/admin", AuthRequired(jwtConfig{}), RequireRole("admin"), func(c *gin.Context) {
		id, ok := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user": id.UserID.String(), "admin": ok && id.HasRole("admin")})
	})
	return r
}

func TestAuthRequiredAndRequireRole(t *testing.T) {
	userID := uuid.New()
	valid := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": []string{"admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	notAdmin := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": []string{"viewer"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	refresh := jwt.MapClaims{
		"sub":  userID.String(),
		"type": "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	expired := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": []string{"admin"},
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "admin", header: "Bearer " + signToken(t, valid), want: http.StatusOK},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + signToken(t, notAdmin), want: http.StatusForbidden},
		{name: "refresh token", header: "Bearer " + signToken(t, refresh), want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, expired), want: http.StatusUnauthorized},
	}

	engine := adminEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestIDPropagation(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())
	r := gin.New()
	r.Use(limiter.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "1000", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), `"code":"rate_limited"`)
}

func TestHandleErrorUsesKind(t *testing.T) {
	tests := []struct {
		err     error
		want    int
		code    string
		message string
	}{
		{err: apperr.Unavailable("down"), want: http.StatusServiceUnavailable, code: "unavailable", message: "down"},
		{err: fmt.Errorf("wrapped: %w", apperr.Forbidden("no")), want: http.StatusForbidden, code: "forbidden", message: "no"},
		{err: fmt.Errorf("db password leaked"), want: http.StatusInternalServerError, code: "internal", message: "internal error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		assert.True(t, HandleError(c, tt.err))
		assert.Equal(t, tt.want, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.code, body.Code)
		assert.Equal(t, tt.message, body.Error)
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assert.False(t, HandleError(c, nil))
}

func TestGetIdentityWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetIdentity(c)
	assert.False(t, ok)

	c.Set(ContextUserIDKey, "not-a-uuid")
	_, ok = GetIdentity(c)
	assert.False(t, ok)

	id := uuid.New()
	c.Set(ContextUserIDKey, id)
	c.Set(ContextRolesKey, []string{"admin"})
	got, ok := GetIdentity(c)
	require.True(t, ok)
	assert.Equal(t, id, got.UserID)
	assert.True(t, got.HasRole("admin"))
	assert.False(t, got.HasRole("viewer"))
}
