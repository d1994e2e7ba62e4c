// calandria.go — модели производственных данных каландрий.
package model

import "time"

// CalandriaRecord — суточные показатели работы каландрий.
// Хранится в локальной таблице calandria_records (одна запись на дату).
type CalandriaRecord struct {
	// ID — UUID записи
	ID string
	// ReportDate — отчётная дата (одна запись на дату)
	ReportDate time.Time
	// GoldTheoreticalOz — теоретический выход золота, унции
	GoldTheoreticalOz float64
	// GoldActualOz — фактический выход золота, унции
	GoldActualOz float64
	// EfficiencyPct — эффективность, % (факт/теория * 100)
	EfficiencyPct float64
	// TonnesProcessed — переработано руды, тонны
	TonnesProcessed float64
	// CreatedBy — кто загрузил данные (email пользователя)
	CreatedBy string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// CalandriaSummary — агрегированные KPI за период для дашборда.
type CalandriaSummary struct {
	// From, To — границы периода (включительно)
	From time.Time
	To   time.Time
	// Days — количество дней с данными в периоде
	Days int
	// TotalTonnes — суммарно переработано руды
	TotalTonnes float64
	// TotalGoldTheoreticalOz — суммарный теоретический выход
	TotalGoldTheoreticalOz float64
	// TotalGoldActualOz — суммарный фактический выход
	TotalGoldActualOz float64
	// AvgEfficiencyPct — средневзвешенная эффективность
	// (сумма факта / сумма теории * 100, не среднее по дням)
	AvgEfficiencyPct float64
	// BestDay, WorstDay — даты с максимальной и минимальной эффективностью
	// (nil, если данных нет)
	BestDay  *time.Time
	WorstDay *time.Time
}
