package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ictportal/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyRole     contextKey = "role"
	contextKeyUsername contextKey = "username"
)

const sessionCookieValueName = "session"

// session is what the securecookie carries between requests.
type session struct {
	Role     types.Role
	Username string
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireRole resolves the session cookie to a role and rejects the
// request unless the role is one of the allowed set. The resolved role
// and username travel in the request context, never in ambient state.
func (s *Service) RequireRole(allowed ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := s.sessionFromRequest(r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			permitted := false
			for _, role := range allowed {
				if sess.Role == role {
					permitted = true
					break
				}
			}
			if !permitted {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, contextKeyRole, sess.Role)
			ctx = context.WithValue(ctx, contextKeyUsername, sess.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Service) sessionFromRequest(r *http.Request) (session, bool) {
	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return session{}, false
	}

	var sess session
	if err := s.cookie.Decode(sessionCookieValueName, cookie.Value, &sess); err != nil {
		s.logger.WithError(err).Debug("failed to decode session cookie")
		return session{}, false
	}

	if sess.Role != types.RoleAdmin && sess.Role != types.RoleReview {
		return session{}, false
	}

	return sess, true
}

func roleFromContext(ctx context.Context) types.Role {
	role, _ := ctx.Value(contextKeyRole).(types.Role)
	return role
}

func usernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(contextKeyUsername).(string)
	return username
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}

	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}
