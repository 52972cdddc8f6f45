package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/middleware"
	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JWTSecret 测试用JWT密钥
const JWTSecret = "test-jwt-secret"

// SetupTestDB creates an in-memory database with all tables migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Blueprint{},
		&entity.BlueprintField{},
		&entity.Contract{},
		&entity.ContractFieldValue{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// SetupRouter creates a gin engine in test mode.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// AuthGroup returns an /api/v1 group protected by JWT auth using JWTSecret.
func AuthGroup(r *gin.Engine) *gin.RouterGroup {
	g := r.Group("/api/v1")
	g.Use(middleware.JWTAuth(JWTSecret))
	return g
}

// GenerateTestToken signs a token for the given user valid for one hour.
func GenerateTestToken(t *testing.T, userID string) string {
	t.Helper()

	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: userID,
		Name:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

// DefaultTestToken signs a token for the default test user.
func DefaultTestToken(t *testing.T) string {
	return GenerateTestToken(t, "tester")
}

// DoRequest performs an HTTP request against the router and records the response.
// body may be nil; non-nil bodies are JSON encoded.
func DoRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes the standard response envelope from a recorder.
func ParseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v (body: %s)", err, w.Body.String())
	}
	return resp
}
