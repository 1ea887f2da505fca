package server

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const subjectKey ctxKey = iota

// requireAuth resolves the bearer credential to a subject id and stores it on
// the request context. Every idea endpoint is scoped to that subject.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Missing bearer token."})
			return
		}

		subject, err := s.verifier.Subject(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token."})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
	}
}

func subjectFrom(r *http.Request) string {
	subject, _ := r.Context().Value(subjectKey).(string)
	return subject
}

// corsHeaders allows the browser client to call from any origin.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
