package server

import (
	"context"
	"net/http"

	"github.com/matzehuels/zbuilder/pkg/session"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "zbuilder_session"

type sessionKey struct{}

// withSession attaches the caller's session, issuing a new ID when the
// cookie is missing or malformed.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessions == nil {
			next.ServeHTTP(w, r)
			return
		}
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != session.CLIID && session.ValidID(c.Value) {
			id = c.Value
		}
		if id == "" {
			id = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, s.sessions.Session(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the request's session, or nil when sessions are off.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}
