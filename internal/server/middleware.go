package server

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"memoir/internal/logging"
	"memoir/internal/services"
)

const (
	headerRequestID = "X-Request-Id"
	tokenCookieName = "token"
)

// requestID tags every request with a correlation id, honoring one supplied
// by a proxy, and echoes it back in the response.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(headerRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(headerRequestID, rid)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), rid)))
	})
}

// recoverer converts handler panics into a 500 response instead of tearing
// down the connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.WithContext(r.Context(), s.logger).Error("handler panic",
					logging.Any("panic", rec),
					logging.String("path", r.URL.Path),
					logging.String("stack", string(debug.Stack())))
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the caller's token to an account and stashes the
// owner id in the request context. Browsers send the token cookie; API
// clients use a bearer header.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(tokenCookieName); err == nil {
				token = cookie.Value
			}
		}

		ident, err := s.identity.Verify(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(services.WithOwnerID(r.Context(), ident.OwnerID)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
