// calandrias.go — обработчики /api/calandrias endpoints.
// Загрузка суточных записей, выборка диапазона, агрегаты дашборда, CSV-отчёт.
// Доступ: любой аутентифицированный пользователь.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	apierrors "github.com/minedash/api-module/internal/api/errors"
	"github.com/minedash/api-module/internal/api/generated"
	"github.com/minedash/api-module/internal/api/middleware"
	"github.com/minedash/api-module/internal/domain/model"
	"github.com/minedash/api-module/internal/service"
)

// SaveCalandriaRecords — POST /api/calandrias/records.
// Пакетный upsert распарсенных строк таблицы (одна запись на дату).
func (h *APIHandler) SaveCalandriaRecords(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}

	var req generated.SaveCalandriaRecordsJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	inputs := make([]service.CalandriaRecordInput, len(req.Records))
	for i, rec := range req.Records {
		inputs[i] = service.CalandriaRecordInput{
			ReportDate:        rec.ReportDate.Time,
			GoldTheoreticalOz: rec.GoldTheoreticalOz,
			GoldActualOz:      rec.GoldActualOz,
			TonnesProcessed:   rec.TonnesProcessed,
		}
	}

	added, updated, err := h.calandrias.SaveRecords(r.Context(), inputs, claims.Email)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка сохранения записей каландрий", "error", err)
		apierrors.InternalError(w, "Ошибка сохранения записей")
		return
	}

	writeJSON(w, http.StatusOK, generated.SaveCalandriaRecordsResponse{
		Success: true,
		Added:   added,
		Updated: updated,
	})
}

// ListCalandriaRecords — GET /api/calandrias/records?from&to.
// Возвращает записи диапазона дат (по умолчанию — последние 30 дней).
func (h *APIHandler) ListCalandriaRecords(w http.ResponseWriter, r *http.Request, params generated.ListCalandriaRecordsParams) {
	from, to := dateRange(params.From, params.To)

	records, err := h.calandrias.ListRecords(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка чтения записей каландрий", "error", err)
		apierrors.InternalError(w, "Ошибка чтения записей")
		return
	}

	items := make([]generated.CalandriaRecord, len(records))
	for i, rec := range records {
		items[i] = mapCalandriaRecord(rec)
	}

	writeJSON(w, http.StatusOK, generated.CalandriaRecordsResponse{
		Success: true,
		Records: items,
	})
}

// GetCalandriaSummary — GET /api/calandrias/summary?from&to.
// Возвращает агрегированные KPI диапазона для дашборда.
func (h *APIHandler) GetCalandriaSummary(w http.ResponseWriter, r *http.Request, params generated.GetCalandriaSummaryParams) {
	from, to := dateRange(params.From, params.To)

	summary, err := h.calandrias.Summary(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка расчёта агрегатов каландрий", "error", err)
		apierrors.InternalError(w, "Ошибка расчёта агрегатов")
		return
	}

	writeJSON(w, http.StatusOK, generated.CalandriaSummaryResponse{
		Success: true,
		Summary: generated.CalandriaSummary{
			From:                   openapi_types.Date{Time: summary.From},
			To:                     openapi_types.Date{Time: summary.To},
			Days:                   summary.Days,
			TotalTonnes:            summary.TotalTonnes,
			TotalGoldTheoreticalOz: summary.TotalGoldTheoreticalOz,
			TotalGoldActualOz:      summary.TotalGoldActualOz,
			AvgEfficiencyPct:       summary.AvgEfficiencyPct,
			BestDay:                datePtr(summary.BestDay),
			WorstDay:               datePtr(summary.WorstDay),
		},
	})
}

// GetCalandriaReport — GET /api/calandrias/report?from&to.
// Формирует CSV-отчёт и отдаёт его как attachment.
func (h *APIHandler) GetCalandriaReport(w http.ResponseWriter, r *http.Request, params generated.GetCalandriaReportParams) {
	from, to := dateRange(params.From, params.To)

	// Отчёт собирается в буфер: ошибка генерации не должна
	// испортить уже начатый HTTP-ответ.
	var buf bytes.Buffer
	if err := h.calandrias.WriteReportCSV(r.Context(), &buf, from, to); err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка формирования CSV-отчёта", "error", err)
		apierrors.InternalError(w, "Ошибка формирования отчёта")
		return
	}

	filename := fmt.Sprintf("reporte_calandrias_%s_%s.csv",
		from.Format(time.DateOnly), to.Format(time.DateOnly))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// mapCalandriaRecord преобразует доменную модель в API-представление.
func mapCalandriaRecord(rec *model.CalandriaRecord) generated.CalandriaRecord {
	id, _ := uuid.Parse(rec.ID)

	out := generated.CalandriaRecord{
		Id:                id,
		ReportDate:        openapi_types.Date{Time: rec.ReportDate},
		GoldTheoreticalOz: rec.GoldTheoreticalOz,
		GoldActualOz:      rec.GoldActualOz,
		EfficiencyPct:     rec.EfficiencyPct,
		TonnesProcessed:   rec.TonnesProcessed,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
	if rec.CreatedBy != "" {
		createdBy := rec.CreatedBy
		out.CreatedBy = &createdBy
	}

	return out
}

// datePtr преобразует *time.Time в openapi date.
func datePtr(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}
