// metrics.go — Prometheus HTTP метрики для API Module.
// Регистрирует метрики: md_http_requests_total, md_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_http_requests_total",
			Help: "Общее количество HTTP-запросов к API Module",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "md_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к API Module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем UUID на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет UUID-сегменты пути на {id} для предотвращения
// взрывного роста кардинальности метрик.
// /api/users/a1b2c3d4-... → /api/users/{userId}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health", "/health/ready", "/metrics",
		"/api/users",
		"/api/calandrias/records",
		"/api/calandrias/summary",
		"/api/calandrias/report":
		return path
	}

	// Динамические пути с UUID
	const usersPrefix = "/api/users/"
	if len(path) > len(usersPrefix) && path[:len(usersPrefix)] == usersPrefix {
		suffix := ""
		// Проверяем суффиксы после UUID (36 символов)
		if len(path) > len(usersPrefix)+36 {
			suffix = path[len(usersPrefix)+36:]
		}
		if suffix == "/role" {
			return "/api/users/{userId}/role"
		}
		return "/api/users/{userId}"
	}

	return path
}
