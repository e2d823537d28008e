package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessions_IssueAndParse(t *testing.T) {
	s := NewSessions("secret", time.Hour, nil)
	rr := httptest.NewRecorder()
	s.Issue(rr, 42)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	uid, ok := s.Parse(req)
	if !ok || uid != 42 {
		t.Fatalf("Parse() = %d, %v", uid, ok)
	}

	other := NewSessions("other-secret", time.Hour, nil)
	if _, ok := other.Parse(req); ok {
		t.Fatal("cookie signed with another secret must be rejected")
	}
}

func TestSessions_ParseTampered(t *testing.T) {
	s := NewSessions("secret", time.Hour, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "1." + s.sign("2")})
	if _, ok := s.Parse(req); ok {
		t.Fatal("tampered cookie must be rejected")
	}
}

func TestSessions_RequireAuth(t *testing.T) {
	verified := map[uint]bool{7: true}
	s := NewSessions("secret", time.Hour, func(_ context.Context, uid uint) bool { return verified[uid] })
	h := s.Middleware(s.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := UserIDFromContext(r.Context())
		if uid != 7 {
			t.Errorf("uid = %d", uid)
		}
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d", rr.Code)
	}

	for uid, want := range map[uint]int{7: http.StatusNoContent, 8: http.StatusUnauthorized} {
		issue := httptest.NewRecorder()
		s.Issue(issue, uid)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range issue.Result().Cookies() {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("uid %d: status = %d, want %d", uid, rr.Code, want)
		}
	}
}
