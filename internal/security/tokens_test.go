package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAccessAndRefresh(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	access, exp, err := p.IssueAccess("u1", "store-1", true, "r1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if access == "" {
		t.Fatal("access token empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	refresh, refreshExp, err := p.IssueRefresh("s1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if refresh == "" {
		t.Fatal("refresh token empty")
	}
	if refreshExp.Before(time.Now()) {
		t.Fatal("refresh expires at in the past")
	}

	sid, err := p.ValidateRefresh(refresh)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if sid != "s1" {
		t.Errorf("ValidateRefresh: got sessionID=%q, want s1", sid)
	}
}

func TestTokenProvider_ValidateAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	access, _, err := p.IssueAccess("u1", "store-1", false, "")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := p.ValidateAccess(access)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if claims.Subject != "u1" || claims.StoreID != "store-1" {
		t.Errorf("ValidateAccess: got subject=%q store=%q", claims.Subject, claims.StoreID)
	}
	if claims.EmailVerified {
		t.Error("EmailVerified should be false")
	}
	if claims.RoleID != "" {
		t.Errorf("RoleID should be empty, got %q", claims.RoleID)
	}
}

func TestTokenProvider_ValidateRefreshInvalid(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := p.ValidateRefresh("invalid-token"); err != ErrInvalidToken {
		t.Errorf("ValidateRefresh invalid token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_TokenUseIsEnforced(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	access, _, err := p.IssueAccess("u1", "store-1", true, "")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	// An access token must not pass refresh validation even though the
	// signature is valid.
	if _, err := p.ValidateRefresh(access); err != ErrInvalidToken {
		t.Errorf("access token as refresh: want ErrInvalidToken, got %v", err)
	}

	refresh, _, err := p.IssueRefresh("s1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := p.ValidateAccess(refresh); err != ErrInvalidToken {
		t.Errorf("refresh token as access: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_EmailVerification(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	tok, err := p.IssueEmailVerification("u1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueEmailVerification: %v", err)
	}
	uid, email, err := p.ValidateEmailVerification(tok)
	if err != nil {
		t.Fatalf("ValidateEmailVerification: %v", err)
	}
	if uid != "u1" || email != "a@b.com" {
		t.Errorf("got userID=%q email=%q", uid, email)
	}
	if _, _, err := p.ValidateEmailVerification("garbage"); err != ErrInvalidToken {
		t.Errorf("garbage token: want ErrInvalidToken, got %v", err)
	}
}
