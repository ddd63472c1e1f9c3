// internal/adapters/in/http/console/handler/auth_handler.go
package consoleHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"fisha/internal/adapters/in/http/middleware"
	usecase "fisha/internal/application/usecase"
)

// AuthHandler
//
//	POST /console/login   {email,password} -> sets adminToken cookie
//	POST /console/logout
//	GET  /console/me      (behind AdminAuth)
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) http.Handler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "auth handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case path == "/console/login" && r.Method == http.MethodPost:
		h.login(w, r)
	case path == "/console/logout" && r.Method == http.MethodPost:
		h.logout(w, r)
	case path == "/console/me" && r.Method == http.MethodGet:
		email, ok := middleware.AdminEmailFrom(r.Context())
		if !ok {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"email": email})
	case path == "/console/login" || path == "/console/logout" || path == "/console/me":
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if err := readJSON(w, r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.uc.Login(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthInvalidInput):
			writeErr(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, usecase.ErrAuthInvalidCredentials):
			writeErr(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, usecase.ErrAuthTooManyAttempts):
			writeErr(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, usecase.ErrAuthNotConfigured):
			writeErr(w, http.StatusServiceUnavailable, err.Error())
		default:
			log.Printf("[console_auth_handler] login failed err=%v", err)
			writeErr(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   int(h.uc.TTL().Seconds()),
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, s)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(middleware.AdminCookieName); err == nil {
		token = c.Value
	}
	if a := r.Header.Get("Authorization"); token == "" && strings.HasPrefix(a, "Bearer ") {
		token = strings.TrimPrefix(a, "Bearer ")
	}

	if err := h.uc.Logout(r.Context(), token); err != nil {
		log.Printf("[console_auth_handler] WARN: logout failed err=%v", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
