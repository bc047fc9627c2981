package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/softcart/storefront_control/pkg/logger"
)

type ctxKey int

const principalKey ctxKey = iota

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logg.Infof("METHOD %s %s URI %s STATUS %d Latency %s Client IP %s User Agent %s",
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					ww.Status(),
					time.Since(start).String(),
					r.RemoteAddr,
					r.UserAgent(),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// authenticate resolves the Bearer token to a principal and stores it
// in the request context; role checks happen in requireRole.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			handleError(w, fmt.Errorf("token required"), http.StatusUnauthorized) //nolint:perfsprint

			return
		}

		token := strings.TrimPrefix(header, "Bearer ")

		p, err := s.authService.Auth(token)
		if err != nil {
			handleError(w, fmt.Errorf("authorization error: %w", err), http.StatusUnauthorized)

			return
		}

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireRole(roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principalFrom(r.Context())
			if !p.HasRole(roles...) {
				w.WriteHeader(http.StatusForbidden)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func principalFrom(ctx context.Context) models.Principal {
	p, _ := ctx.Value(principalKey).(models.Principal)

	return p
}
