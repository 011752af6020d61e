package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baharkarakas/sweetshop/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "secret1" {
		t.Fatal("hash must not equal plaintext")
	}
	if !VerifyPassword("secret1", h) {
		t.Fatal("expected match")
	}
	if VerifyPassword("secret2", h) {
		t.Fatal("expected mismatch")
	}
	if VerifyPassword("secret1", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash must not verify")
	}

	h2, _ := HashPassword("secret1")
	if h == h2 {
		t.Fatal("hashes must be salted")
	}
}

func TestSessionIssueValidate(t *testing.T) {
	s := NewSessions("test-secret", "sweetshop", 0)
	if s.TTL() != DefaultSessionTTL {
		t.Fatalf("ttl = %v", s.TTL())
	}

	tok, exp, err := s.Issue("u1", "a@b.c", models.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(exp); d < DefaultSessionTTL-time.Minute || d > DefaultSessionTTL {
		t.Fatalf("unexpected expiry in %v", d)
	}

	c, ok := s.Validate(tok)
	if !ok {
		t.Fatal("expected valid session")
	}
	p := c.Principal()
	if p.UserID != "u1" || p.Email != "a@b.c" || p.Role != models.RoleAdmin || !p.IsAdmin() {
		t.Fatalf("principal = %+v", p)
	}
}

func TestSessionValidateRejects(t *testing.T) {
	s := NewSessions("test-secret", "sweetshop", time.Hour)
	tok, _, err := s.Issue("u1", "a@b.c", models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	other := NewSessions("other-secret", "sweetshop", time.Hour)
	otherIssuer := NewSessions("test-secret", "someone-else", time.Hour)

	expired := NewSessions("test-secret", "sweetshop", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, _, _ := expired.Issue("u1", "a@b.c", models.RoleUser)

	adminTok, _, _ := other.Issue("u1", "a@b.c", models.RoleAdmin)
	parts, adminParts := strings.Split(tok, "."), strings.Split(adminTok, ".")
	tampered := parts[0] + "." + adminParts[1] + "." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Role: models.RoleAdmin})
	noneTok, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]struct {
		s   *Sessions
		tok string
	}{
		"empty":      {s, ""},
		"garbage":    {s, "not.a.jwt"},
		"bad secret": {other, tok},
		"bad issuer": {otherIssuer, tok},
		"expired":    {s, expiredTok},
		"alg none":   {s, noneTok},
		"tampered":   {s, tampered},
		"truncated":  {s, parts[0]},
	}
	for name, tc := range cases {
		if c, ok := tc.s.Validate(tc.tok); ok || c != nil {
			t.Errorf("%s: expected rejection", name)
		}
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "abc", DefaultSessionTTL, false)
	res := rec.Result()
	cs := res.Cookies()
	if len(cs) != 1 {
		t.Fatalf("cookies = %d", len(cs))
	}
	c := cs[0]
	if c.Name != CookieName || c.Value != "abc" || !c.HttpOnly || c.Path != "/" ||
		c.SameSite != http.SameSiteLaxMode || c.MaxAge != 7*24*60*60 {
		t.Fatalf("cookie = %+v", c)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, true)
	c = rec.Result().Cookies()[0]
	if c.Value != "" || c.MaxAge >= 0 || !c.Secure {
		t.Fatalf("cleared cookie = %+v", c)
	}
}
