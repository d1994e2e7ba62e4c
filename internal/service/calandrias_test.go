package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minedash/api-module/internal/domain/model"
)

// fakeCalandriaRepo — репозиторий в памяти для тестов сервиса.
type fakeCalandriaRepo struct {
	records map[string]*model.CalandriaRecord // ключ — дата YYYY-MM-DD
}

func newFakeCalandriaRepo() *fakeCalandriaRepo {
	return &fakeCalandriaRepo{records: make(map[string]*model.CalandriaRecord)}
}

func (f *fakeCalandriaRepo) Upsert(_ context.Context, rec *model.CalandriaRecord) error {
	key := rec.ReportDate.Format("2006-01-02")
	f.records[key] = rec
	return nil
}

func (f *fakeCalandriaRepo) BatchUpsert(_ context.Context, recs []*model.CalandriaRecord) (int, int, error) {
	var added, updated int
	for _, rec := range recs {
		key := rec.ReportDate.Format("2006-01-02")
		if _, ok := f.records[key]; ok {
			updated++
		} else {
			added++
		}
		f.records[key] = rec
	}
	return added, updated, nil
}

func (f *fakeCalandriaRepo) GetByDate(_ context.Context, date time.Time) (*model.CalandriaRecord, error) {
	rec, ok := f.records[date.Format("2006-01-02")]
	if !ok {
		return nil, errors.New("запись не найдена")
	}
	return rec, nil
}

func (f *fakeCalandriaRepo) ListRange(_ context.Context, from, to time.Time) ([]*model.CalandriaRecord, error) {
	var result []*model.CalandriaRecord
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if rec, ok := f.records[d.Format("2006-01-02")]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeCalandriaRepo) Count(_ context.Context) (int, error) {
	return len(f.records), nil
}

// calDay возвращает дату отчёта (полночь UTC).
func calDay(d int) time.Time {
	return time.Date(2026, time.August, d, 0, 0, 0, 0, time.UTC)
}

// TestSaveRecords_Validation проверяет отклонение некорректного пакета.
func TestSaveRecords_Validation(t *testing.T) {
	svc := NewCalandriaService(newFakeCalandriaRepo(), testLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		inputs []CalandriaRecordInput
	}{
		{"пустой пакет", nil},
		{"нулевая дата", []CalandriaRecordInput{
			{GoldTheoreticalOz: 100, GoldActualOz: 90, TonnesProcessed: 80000},
		}},
		{"отрицательные показатели", []CalandriaRecordInput{
			{ReportDate: calDay(1), GoldTheoreticalOz: -1, GoldActualOz: 90, TonnesProcessed: 80000},
		}},
		{"дублирующаяся дата", []CalandriaRecordInput{
			{ReportDate: calDay(1), GoldTheoreticalOz: 100, GoldActualOz: 90, TonnesProcessed: 80000},
			{ReportDate: calDay(1), GoldTheoreticalOz: 100, GoldActualOz: 95, TonnesProcessed: 81000},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SaveRecords(ctx, tt.inputs, "admin@mina.com")
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ожидался ErrValidation, получена: %v", err)
			}
		})
	}
}

// TestSaveRecords_Efficiency проверяет вычисление эффективности.
func TestSaveRecords_Efficiency(t *testing.T) {
	repo := newFakeCalandriaRepo()
	svc := NewCalandriaService(repo, testLogger())
	ctx := context.Background()

	inputs := []CalandriaRecordInput{
		{ReportDate: calDay(1), GoldTheoreticalOz: 100, GoldActualOz: 90, TonnesProcessed: 80000},
		// Теоретическое золото ноль — эффективность должна быть 0, не NaN
		{ReportDate: calDay(2), GoldTheoreticalOz: 0, GoldActualOz: 0, TonnesProcessed: 0},
	}

	added, updated, err := svc.SaveRecords(ctx, inputs, "admin@mina.com")
	if err != nil {
		t.Fatalf("Ошибка SaveRecords: %v", err)
	}
	if added != 2 || updated != 0 {
		t.Errorf("added=%d, updated=%d; хотели added=2, updated=0", added, updated)
	}

	rec1, _ := repo.GetByDate(ctx, calDay(1))
	if rec1.EfficiencyPct != 90 {
		t.Errorf("EfficiencyPct = %v, хотели 90", rec1.EfficiencyPct)
	}
	rec2, _ := repo.GetByDate(ctx, calDay(2))
	if rec2.EfficiencyPct != 0 {
		t.Errorf("EfficiencyPct = %v, хотели 0 при нулевом теоретическом значении", rec2.EfficiencyPct)
	}
}

// TestSaveRecords_Reupload проверяет обновление при повторной загрузке.
func TestSaveRecords_Reupload(t *testing.T) {
	repo := newFakeCalandriaRepo()
	svc := NewCalandriaService(repo, testLogger())
	ctx := context.Background()

	first := []CalandriaRecordInput{
		{ReportDate: calDay(1), GoldTheoreticalOz: 100, GoldActualOz: 90, TonnesProcessed: 80000},
	}
	if _, _, err := svc.SaveRecords(ctx, first, "admin@mina.com"); err != nil {
		t.Fatalf("Ошибка первой загрузки: %v", err)
	}

	second := []CalandriaRecordInput{
		{ReportDate: calDay(1), GoldTheoreticalOz: 100, GoldActualOz: 95, TonnesProcessed: 81000},
	}
	added, updated, err := svc.SaveRecords(ctx, second, "admin@mina.com")
	if err != nil {
		t.Fatalf("Ошибка повторной загрузки: %v", err)
	}
	if added != 0 || updated != 1 {
		t.Errorf("added=%d, updated=%d; хотели added=0, updated=1", added, updated)
	}

	count, _ := repo.Count(ctx)
	if count != 1 {
		t.Errorf("Count = %d, хотели 1 — по одной строке на дату", count)
	}
}

// TestSummary проверяет агрегаты диапазона.
func TestSummary(t *testing.T) {
	repo := newFakeCalandriaRepo()
	svc := NewCalandriaService(repo, testLogger())
	ctx := context.Background()

	inputs := []CalandriaRecordInput{
		// Эффективность 90%
		{ReportDate: calDay(1), GoldTheoreticalOz: 100, GoldActualOz: 90, TonnesProcessed: 80000},
		// Эффективность 50%
		{ReportDate: calDay(2), GoldTheoreticalOz: 200, GoldActualOz: 100, TonnesProcessed: 82000},
		// Эффективность 100%
		{ReportDate: calDay(3), GoldTheoreticalOz: 100, GoldActualOz: 100, TonnesProcessed: 78000},
	}
	if _, _, err := svc.SaveRecords(ctx, inputs, "admin@mina.com"); err != nil {
		t.Fatalf("Ошибка SaveRecords: %v", err)
	}

	summary, err := svc.Summary(ctx, calDay(1), calDay(3))
	if err != nil {
		t.Fatalf("Ошибка Summary: %v", err)
	}

	if summary.Days != 3 {
		t.Errorf("Days = %d, хотели 3", summary.Days)
	}
	if summary.TotalTonnes != 240000 {
		t.Errorf("TotalTonnes = %v, хотели 240000", summary.TotalTonnes)
	}
	if summary.TotalGoldTheoreticalOz != 400 {
		t.Errorf("TotalGoldTheoreticalOz = %v, хотели 400", summary.TotalGoldTheoreticalOz)
	}
	if summary.TotalGoldActualOz != 290 {
		t.Errorf("TotalGoldActualOz = %v, хотели 290", summary.TotalGoldActualOz)
	}
	// Взвешенная эффективность: 290/400 = 72.5%, а не среднее по дням (80%)
	if summary.AvgEfficiencyPct != 72.5 {
		t.Errorf("AvgEfficiencyPct = %v, хотели 72.5 (взвешенная)", summary.AvgEfficiencyPct)
	}
	if summary.BestDay == nil || summary.BestDay.Day() != 3 {
		t.Errorf("BestDay = %v, хотели 3 августа", summary.BestDay)
	}
	if summary.WorstDay == nil || summary.WorstDay.Day() != 2 {
		t.Errorf("WorstDay = %v, хотели 2 августа", summary.WorstDay)
	}
}

// TestSummary_Empty проверяет агрегаты пустого диапазона.
func TestSummary_Empty(t *testing.T) {
	svc := NewCalandriaService(newFakeCalandriaRepo(), testLogger())

	summary, err := svc.Summary(context.Background(), calDay(1), calDay(31))
	if err != nil {
		t.Fatalf("Ошибка Summary: %v", err)
	}
	if summary.Days != 0 {
		t.Errorf("Days = %d, хотели 0", summary.Days)
	}
	if summary.BestDay != nil || summary.WorstDay != nil {
		t.Error("BestDay/WorstDay должны быть nil для пустого диапазона")
	}
	if summary.AvgEfficiencyPct != 0 {
		t.Errorf("AvgEfficiencyPct = %v, хотели 0", summary.AvgEfficiencyPct)
	}
}

// TestListRecords_InvalidRange проверяет диапазон с концом раньше начала.
func TestListRecords_InvalidRange(t *testing.T) {
	svc := NewCalandriaService(newFakeCalandriaRepo(), testLogger())

	_, err := svc.ListRecords(context.Background(), calDay(10), calDay(1))
	if !errors.Is(err, ErrValidation) {
		t.Errorf("ожидался ErrValidation, получена: %v", err)
	}
}

// TestWriteReportCSV проверяет формирование CSV-отчёта.
func TestWriteReportCSV(t *testing.T) {
	repo := newFakeCalandriaRepo()
	svc := NewCalandriaService(repo, testLogger())
	ctx := context.Background()

	inputs := []CalandriaRecordInput{
		{ReportDate: calDay(1), GoldTheoreticalOz: 120.5, GoldActualOz: 110, TonnesProcessed: 84000},
	}
	if _, _, err := svc.SaveRecords(ctx, inputs, "admin@mina.com"); err != nil {
		t.Fatalf("Ошибка SaveRecords: %v", err)
	}

	var buf strings.Builder
	if err := svc.WriteReportCSV(ctx, &buf, calDay(1), calDay(31)); err != nil {
		t.Fatalf("Ошибка WriteReportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("ожидалось 2 строки CSV, получено %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Fecha,") {
		t.Errorf("неожиданный заголовок CSV: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2026-08-01,120.50,110.00,") {
		t.Errorf("неожиданная строка данных CSV: %s", lines[1])
	}
}
