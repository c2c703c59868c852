package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

type principalKey struct{}

func principalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey{}).(domain.Principal)
	return p
}

// Auth accepts HS256 bearer tokens signed with secret and puts the admin
// principal (sub and email claims) into the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeError(w, r, domain.NewError(domain.ErrUnauthorized, "missing bearer token", nil))
				return
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			})
			if err != nil {
				writeError(w, r, domain.NewError(domain.ErrUnauthorized, "invalid token", err))
				return
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				writeError(w, r, domain.NewError(domain.ErrUnauthorized, "token has no subject", err))
				return
			}
			email, _ := claims["email"].(string)

			ctx := context.WithValue(r.Context(), principalKey{}, domain.Principal{ID: sub, Email: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recoverer turns a panic into a 500 and logs the stack.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("path", r.URL.Path).
					Msg("handler panicked")
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}
