package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MrEthical07/giftauth"
	"github.com/MrEthical07/giftauth/middleware"
	"github.com/MrEthical07/giftauth/pagination"
	"github.com/MrEthical07/giftauth/principal"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Engine is the credential core the handlers drive. *giftauth.Engine satisfies it.
type Engine interface {
	RequestLoginCode(ctx context.Context, phone string) (giftauth.LoginCode, error)
	Login(ctx context.Context, phone, code string) (giftauth.LoginResult, error)
	Logout(ctx context.Context, principalID string, tokens ...string) error
	Authenticate(ctx context.Context, authorization string) (principal.Principal, error)
	AllowSearch(ctx context.Context, callerID string) error
	Principals() principal.Store
}

// Handler serves the user and authentication endpoints.
type Handler struct {
	engine   Engine
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a Handler. A nil logger disables request logging.
func NewHandler(engine Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:   engine,
		logger:   logger.Named("api"),
		validate: newValidator(),
	}
}

// Routes returns the mux with every endpoint registered, wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/user/auth/login/code", h.requestLoginCode)
	mux.HandleFunc("POST /api/user/auth/login", h.login)

	mux.Handle("GET /api/user/logout", h.guard(h.logout))
	mux.Handle("GET /api/user", h.guard(h.currentUser))
	mux.Handle("PUT /api/user", h.guard(h.updateUser))
	mux.Handle("GET /api/user/search", h.guard(h.searchUser))
	mux.Handle("GET /api/user/{id}", h.guard(h.getUser))
	mux.Handle("GET /api/users", h.guard(h.listUsers))

	return h.logRequests(mux)
}

func (h *Handler) guard(next middleware.PrincipalHandler) http.Handler {
	return middleware.Guard(h.engine, next)
}

func (h *Handler) requestLoginCode(w http.ResponseWriter, r *http.Request) {
	var req loginCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	code, err := h.engine.RequestLoginCode(requestContext(r), req.PhoneNumber)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginCodeResponse{LoginCode: code.Code})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.engine.Login(requestContext(r), req.PhoneNumber, req.LoginCode)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request, p principal.Principal) {
	token, _ := giftauth.ParseBearer(r.Header.Get("Authorization"))
	if err := h.engine.Logout(requestContext(r), p.ID, token); err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, http.StatusOK)
}

func (h *Handler) currentUser(w http.ResponseWriter, _ *http.Request, p principal.Principal) {
	writeJSON(w, http.StatusOK, newUserResponse(p, true))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request, p principal.Principal) {
	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}

	saved, err := h.engine.Principals().Save(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(saved, true))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, caller principal.Principal) {
	id := r.PathValue("id")
	if id == caller.ID {
		writeJSON(w, http.StatusOK, newUserResponse(caller, true))
		return
	}

	p, err := h.engine.Principals().FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(p, false))
}

func (h *Handler) searchUser(w http.ResponseWriter, r *http.Request, caller principal.Principal) {
	if err := h.engine.AllowSearch(requestContext(r), caller.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	phone := r.URL.Query().Get("phone_number")
	if phone == "" {
		writeError(w, http.StatusNotFound, "")
		return
	}

	p, err := h.engine.Principals().FindByPhone(r.Context(), phone)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(p, p.ID == caller.ID))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, _ principal.Principal) {
	params := pagination.ParseParams(r.URL.Query())
	store := h.engine.Principals()

	total, err := store.Count(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := pagination.Paginate(total, params.Page, params.PerPage, pagination.QueryLinks(r.URL))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items := []principal.Principal{}
	if page.Len() > 0 {
		items, err = store.List(r.Context(), page.Start, page.Len())
		if err != nil {
			h.fail(w, r, err)
			return
		}
	}

	out := userPage{
		Items:      make([]userResponse, 0, len(items)),
		Pagination: page.Pagination,
	}
	for _, p := range items {
		out.Items = append(out.Items, newUserResponse(p, false))
	}
	writeJSON(w, http.StatusOK, out)
}

// decode reads and validates a JSON body, writing 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validateStruct(h.validate, dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, status, "")
	case http.StatusTooManyRequests:
		writeError(w, status, err.Error())
	default:
		writeError(w, status, "")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, giftauth.ErrInvalidPhoneNumber),
		errors.Is(err, principal.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, giftauth.ErrUnauthorized),
		errors.Is(err, giftauth.ErrInvalidLoginCode):
		return http.StatusUnauthorized
	case errors.Is(err, giftauth.ErrPrincipalNotFound),
		errors.Is(err, principal.ErrNotFound),
		errors.Is(err, giftauth.ErrInvalidPagination):
		return http.StatusNotFound
	case errors.Is(err, giftauth.ErrLoginCodeRateLimited),
		errors.Is(err, giftauth.ErrLoginRateLimited),
		errors.Is(err, giftauth.ErrSearchRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func requestContext(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return giftauth.WithClientIP(r.Context(), host)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
