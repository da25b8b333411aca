package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseToken(t *testing.T) {
	zone := "Zone 3 - East Gonda"
	signed := signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"email":   "worker3@swachhgonda.in",
		"role":    "worker",
		"zone":    zone,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ParseToken(signed, testSecret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "worker" || claims.Zone != zone {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsBadSignature(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{"user_id": "user-1"})
	if _, err := ParseToken(signed, "wrong-secret"); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	if _, err := ParseToken(signed, testSecret); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{"worker allowed", "worker", []string{"worker", "officer"}, http.StatusOK},
		{"officer allowed", "officer", []string{"worker", "officer"}, http.StatusOK},
		{"citizen forbidden", "citizen", []string{"worker", "officer"}, http.StatusForbidden},
		{"super admin passes any check", "super_admin", []string{"worker"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed := signToken(t, jwt.MapClaims{
				"user_id": "user-1",
				"email":   "u@swachhgonda.in",
				"role":    tt.role,
				"exp":     time.Now().Add(time.Hour).Unix(),
			})

			t.Setenv("APP_JWT_SECRET", testSecret)

			handler := Auth(RequireRole(tt.allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			req := httptest.NewRequest(http.MethodGet, "/api/zone/reports", nil)
			req.Header.Set("Authorization", "Bearer "+signed)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
