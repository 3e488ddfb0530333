package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dkushnir/library-service-api/pkg/config"
)

var testCfg = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "library",
	ExpirationMinutes: 30,
}

func TestMintAndParseAccessToken(t *testing.T) {
	now := time.Now().UTC()

	token, err := MintAccessToken(testCfg, now, AccessTokenPayload{
		UserID:  7,
		IsStaff: true,
		JTI:     "session-1",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(testCfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != 7 {
		t.Fatalf("expected user_id 7, got %d", claims.UserID)
	}
	if !claims.IsStaff {
		t.Fatal("staff flag not preserved")
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %s", claims.ID)
	}
	if claims.Issuer != testCfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
}

func TestMintGeneratesJTIWhenMissing(t *testing.T) {
	token, err := MintAccessToken(testCfg, time.Now().UTC(), AccessTokenPayload{UserID: 7})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(testCfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if strings.TrimSpace(claims.ID) == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintRequiresUserID(t *testing.T) {
	if _, err := MintAccessToken(testCfg, time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected error for missing user id")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	past := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(testCfg, past, AccessTokenPayload{UserID: 7})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(testCfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	claims, err := ParseAccessTokenAllowExpired(testCfg, token)
	if err != nil {
		t.Fatalf("allow-expired parse must still succeed: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user_id 7, got %d", claims.UserID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := MintAccessToken(testCfg, time.Now().UTC(), AccessTokenPayload{UserID: 7})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := testCfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	other := testCfg
	other.Issuer = "someone-else"
	token, err := MintAccessToken(other, time.Now().UTC(), AccessTokenPayload{UserID: 7})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(testCfg, token); err == nil {
		t.Fatal("expected token from another issuer to be rejected")
	}
}

func TestAllowExpiredParseStillChecksIssuer(t *testing.T) {
	other := testCfg
	other.Issuer = "someone-else"
	past := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(other, past, AccessTokenPayload{UserID: 7})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessTokenAllowExpired(testCfg, token); err == nil {
		t.Fatal("expected expired token from another issuer to be rejected")
	}
}
