package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	j := NewJWT([]byte("super-secret"), time.Hour, 24*time.Hour)

	tok, expiresAt, err := j.IssueAccess("user-123", "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if expiresAt <= time.Now().Unix() {
		t.Fatalf("expiry %d is not in the future", expiresAt)
	}

	claims, err := j.ParseAccess(tok)
	if err != nil {
		t.Fatalf("ParseAccess error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "user-123")
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
	if claims.DisplayName != "Alice" {
		t.Fatalf("display name mismatch: got %q", claims.DisplayName)
	}
	if claims.ExpiresAt.Unix() != expiresAt {
		t.Fatalf("claim expiry %d does not match returned expiry %d", claims.ExpiresAt.Unix(), expiresAt)
	}
}

func TestParseAccess_Expired(t *testing.T) {
	t.Parallel()

	j := NewJWT([]byte("secret"), -1*time.Second, 24*time.Hour)

	tok, _, err := j.IssueAccess("u1", "u1@example.com", "U1")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := j.ParseAccess(tok); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestParseAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewJWT([]byte("right-secret"), time.Hour, 24*time.Hour)
	verifier := NewJWT([]byte("wrong-secret"), time.Hour, 24*time.Hour)

	tok, _, err := issuer.IssueAccess("u2", "u2@example.com", "U2")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := verifier.ParseAccess(tok); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParseAccess_MalformedString(t *testing.T) {
	t.Parallel()

	j := NewJWT([]byte("k"), time.Hour, 24*time.Hour)
	if _, err := j.ParseAccess("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestIssueAccess_FixedClock(t *testing.T) {
	t.Parallel()

	j := NewJWT([]byte("k"), 15*time.Minute, 24*time.Hour)
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	_, expiresAt, err := j.IssueAccess("u3", "u3@example.com", "U3")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if want := fixed.Add(15 * time.Minute).Unix(); expiresAt != want {
		t.Fatalf("expiry mismatch: got %d want %d", expiresAt, want)
	}
}

func TestHashToken_DeterministicAndHex(t *testing.T) {
	t.Parallel()

	a := HashToken("raw-token")
	b := HashToken("raw-token")
	if a != b {
		t.Fatalf("hash is not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if HashToken("other-token") == a {
		t.Fatalf("different inputs produced the same hash")
	}
}
