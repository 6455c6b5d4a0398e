package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrEthical07/giftauth"
	"github.com/MrEthical07/giftauth/principal"
)

type fakeAuth struct {
	token string
	p     principal.Principal
	err   error
	calls int
}

func (f *fakeAuth) Authenticate(_ context.Context, authorization string) (principal.Principal, error) {
	f.calls++
	if f.err != nil {
		return principal.Principal{}, f.err
	}
	if authorization != "Bearer "+f.token {
		return principal.Principal{}, giftauth.ErrUnauthorized
	}
	return f.p, nil
}

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGuardPassesPrincipal(t *testing.T) {
	auth := &fakeAuth{token: "tok", p: principal.Principal{ID: "p1", PhoneNumber: "09120000000"}}

	var got principal.Principal
	h := Guard(auth, func(w http.ResponseWriter, r *http.Request, p principal.Principal) {
		got = p
		w.WriteHeader(http.StatusNoContent)
	})

	rec := serve(h, "Bearer tok")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.ID != "p1" {
		t.Fatalf("expected principal p1, got %+v", got)
	}
}

func TestGuardRejectsBeforeHandler(t *testing.T) {
	auth := &fakeAuth{token: "tok"}
	called := false
	h := Guard(auth, func(http.ResponseWriter, *http.Request, principal.Principal) { called = true })

	for _, header := range []string{"", "Bearer wrong", "Basic tok"} {
		rec := serve(h, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("expected JSON body: %v", err)
		}
		if body["error"] != "Unauthorized" {
			t.Fatalf("unexpected body %v", body)
		}
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatal("expected WWW-Authenticate challenge")
		}
	}
	if called {
		t.Fatal("handler must not run for rejected requests")
	}
}

func TestGuardBackendFailure(t *testing.T) {
	auth := &fakeAuth{err: errors.Join(giftauth.ErrCredentialStoreUnavailable, errors.New("dial tcp"))}
	h := Guard(auth, func(http.ResponseWriter, *http.Request, principal.Principal) {
		t.Fatal("handler must not run")
	})

	if rec := serve(h, "Bearer tok"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGuardNilAuthenticator(t *testing.T) {
	h := Guard(nil, func(http.ResponseWriter, *http.Request, principal.Principal) {
		t.Fatal("handler must not run")
	})
	if rec := serve(h, "Bearer tok"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
