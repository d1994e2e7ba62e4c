// calandrias.go — сервис производственных записей каландрий.
// Хранение суточных показателей, агрегаты для дашборда и CSV-отчёт.
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/minedash/api-module/internal/domain/model"
	"github.com/minedash/api-module/internal/repository"
)

// CalandriaRecordInput — одна строка загружаемой таблицы показателей.
type CalandriaRecordInput struct {
	ReportDate        time.Time
	GoldTheoreticalOz float64
	GoldActualOz      float64
	TonnesProcessed   float64
}

// CalandriaService — сервис производственных записей каландрий.
type CalandriaService struct {
	repo   repository.CalandriaRepository
	logger *slog.Logger
}

// NewCalandriaService создаёт сервис записей каландрий.
func NewCalandriaService(repo repository.CalandriaRepository, logger *slog.Logger) *CalandriaService {
	return &CalandriaService{
		repo:   repo,
		logger: logger.With(slog.String("component", "calandrias_service")),
	}
}

// SaveRecords сохраняет пакет суточных записей.
// Эффективность вычисляется из фактического и теоретического золота.
// Повторная загрузка за ту же дату обновляет существующую строку.
func (s *CalandriaService) SaveRecords(ctx context.Context, inputs []CalandriaRecordInput, createdBy string) (added, updated int, err error) {
	if len(inputs) == 0 {
		return 0, 0, fmt.Errorf("%w: пустой набор записей", ErrValidation)
	}

	seen := make(map[string]bool, len(inputs))
	recs := make([]*model.CalandriaRecord, 0, len(inputs))
	for i, in := range inputs {
		if in.ReportDate.IsZero() {
			return 0, 0, fmt.Errorf("%w: строка %d — отчётная дата обязательна", ErrValidation, i+1)
		}
		if in.GoldTheoreticalOz < 0 || in.GoldActualOz < 0 || in.TonnesProcessed < 0 {
			return 0, 0, fmt.Errorf("%w: строка %d — показатели не могут быть отрицательными", ErrValidation, i+1)
		}

		dateKey := in.ReportDate.Format("2006-01-02")
		if seen[dateKey] {
			return 0, 0, fmt.Errorf("%w: дата %s встречается в пакете более одного раза", ErrValidation, dateKey)
		}
		seen[dateKey] = true

		recs = append(recs, &model.CalandriaRecord{
			ReportDate:        in.ReportDate,
			GoldTheoreticalOz: in.GoldTheoreticalOz,
			GoldActualOz:      in.GoldActualOz,
			EfficiencyPct:     efficiency(in.GoldActualOz, in.GoldTheoreticalOz),
			TonnesProcessed:   in.TonnesProcessed,
			CreatedBy:         createdBy,
		})
	}

	added, updated, err = s.repo.BatchUpsert(ctx, recs)
	if err != nil {
		return 0, 0, fmt.Errorf("сохранение записей каландрий: %w", err)
	}

	s.logger.Info("Записи каландрий сохранены",
		slog.Int("added", added),
		slog.Int("updated", updated),
		slog.String("created_by", createdBy),
	)

	return added, updated, nil
}

// ListRecords возвращает записи в диапазоне дат (включительно).
func (s *CalandriaService) ListRecords(ctx context.Context, from, to time.Time) ([]*model.CalandriaRecord, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: конец диапазона раньше начала", ErrValidation)
	}

	recs, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("получение записей каландрий: %w", err)
	}
	return recs, nil
}

// Summary вычисляет агрегаты диапазона для дашборда.
// Эффективность диапазона взвешена по теоретическому золоту,
// а не усреднена по дням.
func (s *CalandriaService) Summary(ctx context.Context, from, to time.Time) (*model.CalandriaSummary, error) {
	recs, err := s.ListRecords(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &model.CalandriaSummary{
		From: from,
		To:   to,
		Days: len(recs),
	}

	var bestEff, worstEff float64
	for i, rec := range recs {
		summary.TotalTonnes += rec.TonnesProcessed
		summary.TotalGoldTheoreticalOz += rec.GoldTheoreticalOz
		summary.TotalGoldActualOz += rec.GoldActualOz

		if i == 0 || rec.EfficiencyPct > bestEff {
			bestEff = rec.EfficiencyPct
			d := rec.ReportDate
			summary.BestDay = &d
		}
		if i == 0 || rec.EfficiencyPct < worstEff {
			worstEff = rec.EfficiencyPct
			d := rec.ReportDate
			summary.WorstDay = &d
		}
	}

	summary.AvgEfficiencyPct = efficiency(summary.TotalGoldActualOz, summary.TotalGoldTheoreticalOz)

	return summary, nil
}

// WriteReportCSV записывает CSV-отчёт по диапазону дат в w.
// Колонки соответствуют отчёту дашборда.
func (s *CalandriaService) WriteReportCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	recs, err := s.ListRecords(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := []string{"Fecha", "Oro Teorico (Oz)", "Oro Real (Oz)", "Eficiencia (%)", "Toneladas Procesadas"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("запись заголовка CSV: %w", err)
	}

	for _, rec := range recs {
		row := []string{
			rec.ReportDate.Format("2006-01-02"),
			formatFloat(rec.GoldTheoreticalOz),
			formatFloat(rec.GoldActualOz),
			formatFloat(rec.EfficiencyPct),
			formatFloat(rec.TonnesProcessed),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("запись строки CSV: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("завершение CSV: %w", err)
	}

	s.logger.Debug("CSV-отчёт сформирован",
		slog.Int("rows", len(recs)),
		slog.Time("from", from),
		slog.Time("to", to),
	)

	return nil
}

// efficiency вычисляет процент: actual / theoretical * 100.
// При нулевом теоретическом значении возвращает 0.
func efficiency(actual, theoretical float64) float64 {
	if theoretical == 0 {
		return 0
	}
	return actual / theoretical * 100
}

// formatFloat форматирует показатель с двумя знаками после запятой.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
