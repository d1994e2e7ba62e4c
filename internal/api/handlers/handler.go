// handler.go — основной обработчик API, реализующий generated.ServerInterface.
// Объединяет все доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/minedash/api-module/internal/api/generated"
	"github.com/minedash/api-module/internal/service"
)

// APIHandler — основной обработчик API Module.
// Реализует generated.ServerInterface, делегируя запросы в сервисный слой.
type APIHandler struct {
	health     *HealthHandler
	adminUsers *service.AdminUserService
	calandrias *service.CalandriaService
	devMode    bool
	logger     *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// devMode — в режиме разработки текст ошибок Remote Service передаётся
// клиенту как есть, в production сообщения обезличиваются.
func NewAPIHandler(
	health *HealthHandler,
	adminUsers *service.AdminUserService,
	calandrias *service.CalandriaService,
	devMode bool,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:     health,
		adminUsers: adminUsers,
		calandrias: calandrias,
		devMode:    devMode,
		logger:     logger.With(slog.String("component", "api_handler")),
	}
}

// GetHealth — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.health.GetHealth(w, r)
}

// GetHealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) GetHealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.GetHealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// reportRangeDays — размер диапазона по умолчанию для запросов записей.
const reportRangeDays = 30

// dateRange нормализует диапазон дат запроса.
// Отсутствующие границы — последние 30 дней включая сегодня (UTC).
func dateRange(from *generated.FromDate, to *generated.ToDate) (time.Time, time.Time) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(reportRangeDays - 1))

	if to != nil {
		end = to.Time
	}
	if from != nil {
		start = from.Time
	}

	return start, end
}
