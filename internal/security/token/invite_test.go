package tokens

import (
	"errors"
	"testing"
	"time"
)

func TestSignVerifyInvite_RoundTrip(t *testing.T) {
	tok := SignInvite("secreto", "prov-123", time.Hour)

	id, err := VerifyInvite("secreto", tok)
	if err != nil {
		t.Fatal(err)
	}
	if id != "prov-123" {
		t.Fatalf("expected prov-123, got %q", id)
	}
}

func TestVerifyInvite_WrongSecret(t *testing.T) {
	tok := SignInvite("secreto", "prov-123", time.Hour)
	if _, err := VerifyInvite("otro-secreto", tok); !errors.Is(err, ErrInviteInvalid) {
		t.Fatalf("expected ErrInviteInvalid, got %v", err)
	}
}

func TestVerifyInvite_Expired(t *testing.T) {
	tok := SignInvite("secreto", "prov-123", -time.Minute)
	if _, err := VerifyInvite("secreto", tok); !errors.Is(err, ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
}

func TestVerifyInvite_Malformed(t *testing.T) {
	for _, tok := range []string{"", "sin-punto", "!!!.firma", "cGF5bG9hZA.firma-mala"} {
		if _, err := VerifyInvite("secreto", tok); !errors.Is(err, ErrInviteInvalid) {
			t.Fatalf("expected ErrInviteInvalid for %q, got %v", tok, err)
		}
	}
}

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}
	if SHA256Base64URL(a) == SHA256Base64URL(b) {
		t.Fatal("expected distinct hashes")
	}
	// el hash es determinístico
	if SHA256Base64URL(a) != SHA256Base64URL(a) {
		t.Fatal("expected stable hash")
	}
}
