package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"timekeep/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func signToken(t *testing.T, secret, userID, role string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("role")})
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("valid bearer token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "u1", "ADMIN", time.Hour))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, "test-secret", "u1", "HR", time.Hour)})
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "u1", "ADMIN", -time.Hour))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("wrong secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "u1", "ADMIN", time.Hour))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestID(), ContextLogger(zap.New(core)))
	router.GET("/ping", func(c *gin.Context) {
		contextutil.GetLogger(c.Request.Context(), nil).Info("handled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	entries := logs.FilterMessage("handled").All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role string) *gin.Engine {
		router := gin.New()
		router.GET("/admin",
			func(c *gin.Context) { c.Set("role", role) },
			RoleMiddleware("ADMIN", "HR"),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		return router
	}

	t.Run("allowed role", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("HR").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forbidden role", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("VIEWER").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})
}

func TestDeviceAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/ingest", DeviceAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("open when unconfigured", func(t *testing.T) {
		os.Unsetenv("DEVICE_TOKEN")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		t.Setenv("DEVICE_TOKEN", "kiosk-secret")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.Header.Set("X-Device-Token", "wrong")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts matching token", func(t *testing.T) {
		t.Setenv("DEVICE_TOKEN", "kiosk-secret")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.Header.Set("X-Device-Token", "kiosk-secret")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("no key passes through", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		router := gin.New()
		router.POST("/events", Idempotency(rdb), func(c *gin.Context) { c.Status(http.StatusCreated) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/events", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("replay serves cached response", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		router := gin.New()
		router.POST("/events", Idempotency(rdb), func(c *gin.Context) {
			t.Fatal("handler must not run on a replay")
		})

		rmock.ExpectGet("idemp:/events:kiosk-1:abc").SetVal(`{"employee_number":"EMP-000042"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		req.Header.Set("Idempotency-Key", "abc")
		req.Header.Set("X-Device-ID", "kiosk-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Ok   bool `json:"ok"`
			Data struct {
				EmployeeNumber string `json:"employee_number"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.True(t, envelope.Ok)
		assert.Equal(t, "EMP-000042", envelope.Data.EmployeeNumber)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("first request takes the lock", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		router := gin.New()
		router.POST("/events", Idempotency(rdb), func(c *gin.Context) {
			assert.NotEmpty(t, c.GetString("idempotency_cache_key"))
			assert.NotEmpty(t, c.GetString("idempotency_lock_key"))
			c.Status(http.StatusCreated)
		})

		rmock.ExpectGet("idemp:/events:kiosk-1:abc").RedisNil()
		rmock.ExpectSetNX("idemp:/events:kiosk-1:abc:lock", "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		req.Header.Set("Idempotency-Key", "abc")
		req.Header.Set("X-Device-ID", "kiosk-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate gets conflict", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		router := gin.New()
		router.POST("/events", Idempotency(rdb), func(c *gin.Context) {
			t.Fatal("handler must not run while the lock is held")
		})

		rmock.ExpectGet("idemp:/events:kiosk-1:abc").RedisNil()
		rmock.ExpectSetNX("idemp:/events:kiosk-1:abc:lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		req.Header.Set("Idempotency-Key", "abc")
		req.Header.Set("X-Device-ID", "kiosk-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, rmock.ExpectationsWereMet())
	})
}
