package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestJWTService(t *testing.T) *Service {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return NewTestService(privateKey, "test-issuer", 15*time.Minute)
}

// ============================================================================
// Claims.Valid() Tests
// ============================================================================

func TestClaims_Valid_NoExpiration_ReturnsNil(t *testing.T) {
	t.Parallel()
	claims := Claims{
		Subject: "client:123",
		Email:   "test@example.com",
	}

	if err := claims.Valid(); err != nil {
		t.Errorf("expected no error for claims without expiration, got %v", err)
	}
}

func TestClaims_Valid_NotExpired_ReturnsNil(t *testing.T) {
	t.Parallel()
	claims := Claims{
		Subject:   "client:123",
		ExpiresAt: time.Now().Add(1 * time.Hour).Unix(),
	}

	if err := claims.Valid(); err != nil {
		t.Errorf("expected no error for non-expired token, got %v", err)
	}
}

func TestClaims_Valid_Expired_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	claims := Claims{
		Subject:   "client:123",
		ExpiresAt: time.Now().Add(-1 * time.Hour).Unix(),
	}

	if err := claims.Valid(); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestClaims_Valid_NotYetValid_ReturnsErrTokenNotYetValid(t *testing.T) {
	t.Parallel()
	claims := Claims{
		Subject:   "client:123",
		NotBefore: time.Now().Add(1 * time.Hour).Unix(),
	}

	if err := claims.Valid(); err != ErrTokenNotYetValid {
		t.Errorf("expected ErrTokenNotYetValid, got %v", err)
	}
}

// ============================================================================
// Claims.IsStaff() Tests
// ============================================================================

func TestClaims_IsStaff(t *testing.T) {
	t.Parallel()

	if !(&Claims{Role: RoleStaff}).IsStaff() {
		t.Error("expected staff role to report IsStaff")
	}
	if (&Claims{Role: RoleClient}).IsStaff() {
		t.Error("client role must not report IsStaff")
	}
	if (&Claims{}).IsStaff() {
		t.Error("empty role must not report IsStaff")
	}
}

// ============================================================================
// Sign / Validate Tests
// ============================================================================

func TestSignAndValidate_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestJWTService(t)

	token, err := svc.Sign(Claims{
		Subject: "client:123",
		Email:   "maria@example.com",
		Role:    RoleClient,
	})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Subject != "client:123" {
		t.Errorf("expected subject preserved, got %q", claims.Subject)
	}
	if claims.Role != RoleClient {
		t.Errorf("expected role preserved, got %q", claims.Role)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer set by service, got %q", claims.Issuer)
	}
}

func TestSign_NoPrivateKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := &Service{issuer: "test-issuer"}

	if _, err := svc.Sign(Claims{Subject: "client:123"}); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestValidate_MalformedToken_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestJWTService(t)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d"} {
		if _, err := svc.Validate(token); err != ErrInvalidToken {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidate_TamperedClaims_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := newTestJWTService(t)

	token, err := svc.Sign(Claims{Subject: "client:123", Role: RoleClient})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	// Swap the claims segment for one granting staff role.
	parts := strings.Split(token, ".")
	forged, _ := json.Marshal(Claims{Subject: "client:123", Role: RoleStaff, Issuer: "test-issuer"})
	parts[1] = strings.TrimRight(base64.URLEncoding.EncodeToString(forged), "=")

	if _, err := svc.Validate(strings.Join(parts, ".")); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature for forged claims, got %v", err)
	}
}

func TestValidate_WrongIssuer_Rejected(t *testing.T) {
	t.Parallel()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	issuerA := NewTestService(privateKey, "issuer-a", time.Minute)
	issuerB := NewTestService(privateKey, "issuer-b", time.Minute)

	token, err := issuerA.Sign(Claims{Subject: "client:123"})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := issuerB.Validate(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for issuer mismatch, got %v", err)
	}
}

func TestValidate_ExpiredToken_Rejected(t *testing.T) {
	t.Parallel()
	svc := newTestJWTService(t)

	token, err := svc.Sign(Claims{
		Subject:   "client:123",
		ExpiresAt: time.Now().Add(-1 * time.Minute).Unix(),
	})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := svc.Validate(token); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

// ============================================================================
// Issue Tests
// ============================================================================

func TestIssue_SetsRoleAndExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestJWTService(t)

	token, expiresAt, err := svc.Issue("client:123", RoleClient)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if time.Until(expiresAt) > 15*time.Minute || time.Until(expiresAt) < 14*time.Minute {
		t.Errorf("expected expiration near the configured 15m, got %v", time.Until(expiresAt))
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Subject != "client:123" || claims.Role != RoleClient {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

// ============================================================================
// Key Loading Tests
// ============================================================================

func TestGenerateKeyPair_AndLoadThroughNewService(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	if _, err := os.Stat(privatePath); err != nil {
		t.Fatalf("private key not written: %v", err)
	}

	signer, err := NewService(Config{
		PrivateKeyPath: privatePath,
		Issuer:         "test-issuer",
		ExpirationMins: 15,
	})
	if err != nil {
		t.Fatalf("loading private key: %v", err)
	}

	verifier, err := NewService(Config{
		PublicKeyPath:  publicPath,
		Issuer:         "test-issuer",
		ExpirationMins: 15,
	})
	if err != nil {
		t.Fatalf("loading public key: %v", err)
	}

	token, _, err := signer.Issue("staff:ana", RoleStaff)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := verifier.Validate(token)
	if err != nil {
		t.Fatalf("validation with public key only: %v", err)
	}
	if !claims.IsStaff() {
		t.Error("expected staff claims")
	}

	// Verifier has no private key, so it cannot sign.
	if _, err := verifier.Sign(Claims{Subject: "x"}); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey from verify-only service, got %v", err)
	}
}
