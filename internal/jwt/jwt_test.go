package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestIssueParse_RoundTrip(t *testing.T) {
	iss := NewIssuer("wellbook", "un-secreto", 15*time.Minute)

	tok, exp, err := iss.IssueAccess(Claims{
		UserID:     "u1",
		Email:      "owner@demo.local",
		BusinessID: "b1",
		Role:       "owner",
	})
	if err != nil {
		t.Fatal(err)
	}
	if exp.Before(time.Now()) {
		t.Fatal("expected future expiry")
	}

	c, err := iss.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.UserID != "u1" || c.Email != "owner@demo.local" || c.BusinessID != "b1" || c.Role != "owner" {
		t.Fatalf("claims mismatch: %+v", c)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	a := NewIssuer("wellbook", "secreto-a", time.Minute)
	b := NewIssuer("wellbook", "secreto-b", time.Minute)

	tok, _, err := a.IssueAccess(Claims{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_WrongIssuer(t *testing.T) {
	a := NewIssuer("wellbook", "secreto", time.Minute)
	b := NewIssuer("otro-iss", "secreto", time.Minute)

	tok, _, err := a.IssueAccess(Claims{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Parse(tok); !errors.Is(err, ErrInvalidIssuer) {
		t.Fatalf("expected ErrInvalidIssuer, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	// TTL negativo fuerza exp en el pasado; el constructor normaliza TTL<=0,
	// así que armamos el issuer a mano.
	iss := &Issuer{Iss: "wellbook", Secret: []byte("secreto"), AccessTTL: -2 * time.Minute}

	tok, _, err := iss.IssueAccess(Claims{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := iss.Parse(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	iss := NewIssuer("wellbook", "secreto", time.Minute)
	if _, err := iss.Parse("no.es.jwt"); err == nil {
		t.Fatal("expected error")
	}
}
