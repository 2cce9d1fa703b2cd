package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"myblog/app/session"
)

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logger logs information about each request
func Logger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}

// Recoverer recovers from panics and logs the error
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic",
						zap.Any("error", err),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin sends guests to the sign-in page with an error notice
func RequireLogin(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.FromContext(r.Context()).User() == nil {
				flashRedirect(w, r, log, "Not signed in", "/signin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireGuest sends signed-in users back where they came from
func RequireGuest(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.FromContext(r.Context()).User() != nil {
				flashRedirect(w, r, log, "Already signed in", Back(r, "/posts"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func flashRedirect(w http.ResponseWriter, r *http.Request, log *zap.Logger, message, target string) {
	s := session.FromContext(r.Context())
	s.Flash(session.Error, message)
	if err := s.Save(w); err != nil {
		log.Warn("failed to save session", zap.String("path", r.URL.Path), zap.Error(err))
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Back returns the path and query of the Referer header, or fallback when
// there is no usable referrer. The host is always dropped.
func Back(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}
	return u.RequestURI()
}
