package auth

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testSecret = "test-signing-secret"

func TestVerify_SubjectIsolation(t *testing.T) {
	t.Parallel()

	subjects := []Subject{SubjectAuth, SubjectConfirm, SubjectReset}
	logger := zap.NewNop()

	for _, issued := range subjects {
		issuer := NewTokenService(testSecret, issued, time.Hour, logger)
		token, _, err := issuer.Generate("acc-1", "a@b.com")
		if err != nil {
			t.Fatalf("Generate(%s): %v", issued, err)
		}

		for _, expected := range subjects {
			verifier := NewTokenService(testSecret, expected, time.Hour, logger)
			_, err := verifier.Verify(token)
			if issued == expected {
				if err != nil {
					t.Fatalf("token for %s must verify for %s, got %v", issued, expected, err)
				}
				continue
			}
			if !errors.Is(err, ErrSubjectMismatch) {
				t.Fatalf("token for %s verified as %s: want ErrSubjectMismatch, got %v", issued, expected, err)
			}
		}
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, SubjectAuth, -1*time.Second, zap.NewNop())
	token, _, err := svc.Generate("acc-1", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerify_IgnoreExpiry(t *testing.T) {
	t.Parallel()

	issuer := NewTokenService(testSecret, SubjectConfirm, -1*time.Second, zap.NewNop())
	token, _, err := issuer.Generate("acc-1", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	lenient := NewTokenService(testSecret, SubjectConfirm, 0, zap.NewNop(), IgnoreExpiry())
	claims, err := lenient.Verify(token)
	if err != nil {
		t.Fatalf("lenient verifier must accept expired token, got %v", err)
	}
	if claims.Subject != "acc-1" {
		t.Fatalf("unexpected subject claim %q", claims.Subject)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenService(testSecret, SubjectAuth, time.Hour, zap.NewNop())
	token, _, err := issuer.Generate("acc-1", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	verifier := NewTokenService("other-secret", SubjectAuth, time.Hour, zap.NewNop())
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for bad signature, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, SubjectAuth, time.Hour, zap.NewNop())
	if _, err := svc.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestGenerate_NoTTLMeansNoExpiry(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, SubjectAuth, 0, zap.NewNop())
	token, expiresAt, err := svc.Generate("acc-1", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !expiresAt.IsZero() {
		t.Fatalf("expected zero expiry, got %v", expiresAt)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no exp claim, got %v", claims.ExpiresAt)
	}
}
