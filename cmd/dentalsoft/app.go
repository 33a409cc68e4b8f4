package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diewo77/dentalsoft/i18n"
	"github.com/diewo77/dentalsoft/internal/handlers"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/metrics"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	metrics *metrics.Metrics
	log     *logrus.Entry
	ping    func(context.Context) error
}

// NewApp creates a new application with all routes configured.
// ping may be nil, in which case /healthz always answers ok.
func NewApp(routes *handlers.RouterConfig, m *metrics.Metrics, log *logging.Logger, ping func(context.Context) error) *App {
	if log == nil {
		log = logging.Discard()
	}
	app := &App{
		mux:     http.NewServeMux(),
		metrics: m,
		log:     log.WithComponent("http"),
		ping:    ping,
	}
	app.setupRoutes(routes)
	return app
}

func (a *App) setupRoutes(routes *handlers.RouterConfig) {
	routes.Register(a.mux)
	a.mux.HandleFunc("GET /healthz", a.healthz)
	if a.metrics != nil {
		a.mux.Handle("GET /metrics", a.metrics.Handler())
	}
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if a.ping != nil {
		if err := a.ping(r.Context()); err != nil {
			a.log.WithError(err).Warn("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
	}
	_, _ = w.Write([]byte("ok"))
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.withLogging(withPreferences(a.mux)).ServeHTTP(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs every request and records it in the HTTP metrics under
// its route pattern.
func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		_, route := a.mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		a.metrics.RecordHTTPRequest(r.Method, route, rec.status, elapsed.Seconds())
		entry := a.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": elapsed.String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request")
	})
}

// withPreferences injects the language from ?lang=, the lang cookie or
// Accept-Language, in that order.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = i18n.DetectLanguage(c.Value)
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = i18n.DetectLanguage(q)
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
