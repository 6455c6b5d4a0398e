package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrEthical07/giftauth"
	"github.com/MrEthical07/giftauth/principal"
)

// Authenticator resolves an Authorization header value to a principal.
// *giftauth.Engine satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (principal.Principal, error)
}

// PrincipalHandler is an HTTP handler that runs only for authenticated requests.
type PrincipalHandler func(w http.ResponseWriter, r *http.Request, p principal.Principal)

// Guard rejects requests whose bearer credential does not resolve with 401
// before next runs. Backend failures yield 500.
func Guard(auth Authenticator, next PrincipalHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth == nil || next == nil {
			writeError(w, http.StatusUnauthorized)
			return
		}

		p, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, giftauth.ErrUnauthorized) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized)
				return
			}
			writeError(w, http.StatusInternalServerError)
			return
		}

		next(w, r, p)
	})
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
}
