// internal/adapters/in/http/mall/handler/helper_handler.go
package mallHandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	productdom "fisha/internal/domain/product"
)

const (
	// SessionCookieName identifies the storefront cart session.
	SessionCookieName = "cart_session"
	// SessionHeader lets non-browser clients pick their session explicitly.
	SessionHeader = "X-Session-Id"

	sessionCookieMaxAge = 7 * 24 * time.Hour
	maxBodyBytes        = 1 << 20
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed")
}

func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "not_found")
}

// readJSON decodes exactly one JSON value into dst.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid json: trailing data")
	}
	return nil
}

// ============================================================
// Session
// ============================================================

// sessionID returns the caller's cart session, issuing a cookie when the
// request carries none.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(SessionHeader)); v != "" {
		return v
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}

	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, sid)
	return sid
}

// ============================================================
// Query parsing
// ============================================================

// filterFromQuery reads the storefront facets.
func filterFromQuery(q url.Values) (productdom.Filter, error) {
	f := productdom.Filter{
		Subcategory: strings.TrimSpace(firstNonEmpty(q.Get("subcategory"), q.Get("brand"))),
		Size:        strings.TrimSpace(q.Get("size")),
		Color:       strings.TrimSpace(q.Get("color")),
		Search:      strings.TrimSpace(firstNonEmpty(q.Get("q"), q.Get("search"))),
	}
	if c := strings.TrimSpace(q.Get("category")); c != "" {
		f.Categories = []string{c}
	}

	var err error
	if f.MinPrice, err = parsePrice(q.Get("minPrice")); err != nil {
		return productdom.Filter{}, fmt.Errorf("minPrice: %w", err)
	}
	if f.MaxPrice, err = parsePrice(q.Get("maxPrice")); err != nil {
		return productdom.Filter{}, fmt.Errorf("maxPrice: %w", err)
	}
	return f, nil
}

func parsePrice(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return nil, errors.New("must be a non-negative number")
	}
	return &f, nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// pathTail returns the path segment after prefix ("" if none).
func pathTail(path, prefix string) string {
	rest := strings.TrimPrefix(strings.TrimRight(path, "/"), prefix)
	rest = strings.Trim(rest, "/")
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
