package utils

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"tenantnotes/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

func testUser() *entity.User {
	return &entity.User{
		ID:           "user-1",
		Email:        "owner@acme.test",
		Role:         entity.RoleAdmin,
		TenantID:     "tenant-1",
		Subscription: entity.TierPro,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := IssueToken(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "owner@acme.test" {
		t.Fatalf("identity claims not preserved: %+v", claims)
	}
	if claims.Role != entity.RoleAdmin || claims.TenantID != "tenant-1" || claims.Subscription != entity.TierPro {
		t.Fatalf("entitlement claims not preserved: %+v", claims)
	}
}

func TestValidateTokenRejectsTamperedPayload(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := IssueToken(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Swap the payload segment for forged claims; the signature no
	// longer matches.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"uid":"user-2","role":"admin","plan":"pro"}`))
	tampered := parts[0] + "." + forged + "." + parts[2]

	if _, err := ValidateToken(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestValidateTokenRejectsWrongStructure(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d", "!!.??.##"} {
		if _, err := ValidateToken(token); err == nil {
			t.Fatalf("expected token %q to be rejected", token)
		}
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	token, err := IssueToken(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	t.Setenv("JWT_SECRET", "a-different-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	claims := TokenClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("unit-test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := ValidateToken(expired); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsAlgNone(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := ValidateToken(unsigned); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer   spaced  ", "spaced", true},
		{"bearer abc", "", false},
		{"Token abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := ExtractBearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("header %q: got (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
