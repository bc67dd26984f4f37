package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "secret_de_test"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signature du token: %v", err)
	}
	return signed
}

func TestParseBearerValidToken(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"user_id": "u42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	userID, err := ParseBearer("Bearer "+signed, testSecret)
	if err != nil {
		t.Fatalf("ParseBearer: %v", err)
	}
	if userID != "u42" {
		t.Fatalf("attendu u42, obtenu %q", userID)
	}
}

func TestParseBearerExpiredToken(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"user_id": "u42",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := ParseBearer("Bearer "+signed, testSecret); err == nil {
		t.Fatal("attendu une erreur pour un token expiré")
	}
}

func TestParseBearerMissingUserID(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := ParseBearer("Bearer "+signed, testSecret); err == nil {
		t.Fatal("attendu une erreur sans user_id")
	}
}

func TestParseBearerRejectsBadHeader(t *testing.T) {
	cases := []string{"", "Basic abc", "Bearer", "Bearer mauvais.token.ici"}
	for _, header := range cases {
		if _, err := ParseBearer(header, testSecret); err == nil {
			t.Fatalf("header %q: attendu une erreur", header)
		}
	}
}

func TestParseBearerWrongSecret(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"user_id": "u42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseBearer("Bearer "+signed, "autre_secret")
	if err == nil || !strings.Contains(err.Error(), "token invalide") {
		t.Fatalf("attendu un rejet de signature, obtenu %v", err)
	}
}
