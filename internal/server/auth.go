package server

import (
	"crypto/subtle"
	"net/http"

	"ictportal/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessionFromRequest(r); ok {
		http.Redirect(w, r, dashboardPath(sess.Role), http.StatusSeeOther)
		return
	}

	s.renderLogin(w, r.URL.Query().Get("error"))
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	ip := clientIP(r)

	role, ok := s.verifyCredentials(username, password)
	if !ok {
		// Which check failed is deliberately not revealed.
		if err := s.audit.Record(r.Context(), "unknown", username, "LOGIN_FAILED", "invalid credentials", ip); err != nil {
			s.logger.WithError(err).Error("failed to record login attempt")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		s.renderLogin(w, "Invalid credentials")
		return
	}

	if err := s.audit.Record(r.Context(), string(role), username, "LOGIN", "login successful", ip); err != nil {
		s.logger.WithError(err).Error("failed to record login attempt")
	}

	encoded, err := s.cookie.Encode(sessionCookieValueName, session{Role: role, Username: username})
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.SessionMaxAgeSec,
		Path:     "/",
	})

	http.Redirect(w, r, dashboardPath(role), http.StatusSeeOther)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessionFromRequest(r); ok {
		if err := s.audit.Record(r.Context(), string(sess.Role), sess.Username, "LOGOUT", "logged out", clientIP(r)); err != nil {
			s.logger.WithError(err).Error("failed to record logout")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// verifyCredentials matches the posted pair against the two configured
// accounts. Passwords are bcrypt hashes compared with
// CompareHashAndPassword; both username and password checks are
// constant-time, and a dummy compare runs when no username matches so
// timing does not leak which account exists.
func (s *Service) verifyCredentials(username, password string) (types.Role, bool) {
	if usernameEqual(username, s.config.AdminUsername) {
		if bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password)) == nil {
			return types.RoleAdmin, true
		}
		return types.RoleAnonymous, false
	}

	if usernameEqual(username, s.config.ReviewUsername) {
		if bcrypt.CompareHashAndPassword([]byte(s.config.ReviewPasswordHash), []byte(password)) == nil {
			return types.RoleReview, true
		}
		return types.RoleAnonymous, false
	}

	bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return types.RoleAnonymous, false
}

// dummyHash is a valid bcrypt hash matching no configured password. It
// keeps the work done for an unknown username comparable to the work
// done for a known one.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

func usernameEqual(a, b string) bool {
	return b != "" && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func dashboardPath(role types.Role) string {
	if role == types.RoleAdmin {
		return "/admin"
	}
	return "/review"
}

func (s *Service) renderLogin(w http.ResponseWriter, errMsg string) {
	data := LoginPageData{Title: "Login", Error: errMsg}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
	}
}
