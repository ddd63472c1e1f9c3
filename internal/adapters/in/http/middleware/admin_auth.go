// internal/adapters/in/http/middleware/admin_auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// AdminCookieName carries the admin session token.
const AdminCookieName = "adminToken"

// ctxKey avoids collisions with other packages' context keys.
type ctxKey struct{ name string }

var ctxKeyAdminEmail = ctxKey{name: "adminEmail"}

// SessionVerifier resolves an opaque admin session token to the admin email.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// AdminAuth accepts
//
//   - the adminToken cookie or "Authorization: Bearer <session token>"
//   - a Firebase ID token in the Bearer header, when FirebaseAuth is set and
//     the token belongs to an admin (email in AdminEmails or an "admin" claim)
//
// and puts the admin email into the request context.
type AdminAuth struct {
	Sessions     SessionVerifier
	FirebaseAuth IDTokenVerifier

	// AdminEmails lists the Firebase accounts allowed in. Empty means only
	// tokens carrying the admin custom claim pass.
	AdminEmails []string
}

func (m *AdminAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || (m.Sessions == nil && m.FirebaseAuth == nil) {
			http.Error(w, "admin auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		token := tokenFromRequest(r)
		if token == "" {
			http.Error(w, "unauthorized: missing token", http.StatusUnauthorized)
			return
		}

		if m.Sessions != nil {
			if email, err := m.Sessions.Verify(r.Context(), token); err == nil {
				next.ServeHTTP(w, r.WithContext(WithAdminEmail(r.Context(), email)))
				return
			}
		}

		if m.FirebaseAuth != nil {
			tok, err := m.FirebaseAuth.VerifyIDToken(r.Context(), token)
			if err == nil && tok != nil && strings.TrimSpace(tok.UID) != "" {
				email, _ := tok.Claims["email"].(string)
				email = strings.TrimSpace(email)
				if !m.isAdmin(email, tok.Claims) {
					log.Printf("[AdminAuth] firebase user is not an admin path=%s uid=%s", r.URL.Path, tok.UID)
					http.Error(w, "unauthorized: not an admin", http.StatusUnauthorized)
					return
				}
				log.Printf("[AdminAuth] firebase path=%s uid=%s email=%s", r.URL.Path, tok.UID, email)
				next.ServeHTTP(w, r.WithContext(WithAdminEmail(r.Context(), email)))
				return
			}
		}

		http.Error(w, "unauthorized: invalid token", http.StatusUnauthorized)
	})
}

func (m *AdminAuth) isAdmin(email string, claims map[string]interface{}) bool {
	if v, ok := claims["admin"].(bool); ok && v {
		return true
	}
	if email == "" {
		return false
	}
	for _, allowed := range m.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(allowed), email) {
			return true
		}
	}
	return false
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	if c, err := r.Cookie(AdminCookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func WithAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxKeyAdminEmail, email)
}

// AdminEmailFrom returns the authenticated admin, if any.
func AdminEmailFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyAdminEmail).(string)
	return v, ok
}
