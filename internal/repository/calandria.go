package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/minedash/api-module/internal/domain/model"
)

// CalandriaRepository — интерфейс доступа к суточным записям каландрий.
type CalandriaRepository interface {
	// Upsert создаёт или обновляет запись за отчётную дату.
	Upsert(ctx context.Context, rec *model.CalandriaRecord) error
	// BatchUpsert сохраняет пакет записей в одной транзакции.
	// Возвращает количество добавленных и обновлённых записей.
	BatchUpsert(ctx context.Context, recs []*model.CalandriaRecord) (added, updated int, err error)
	// GetByDate возвращает запись за отчётную дату.
	GetByDate(ctx context.Context, date time.Time) (*model.CalandriaRecord, error)
	// ListRange возвращает записи в диапазоне дат (включительно), по возрастанию даты.
	ListRange(ctx context.Context, from, to time.Time) ([]*model.CalandriaRecord, error)
	// Count возвращает количество записей.
	Count(ctx context.Context) (int, error)
}

// calandriaRepo — реализация CalandriaRepository.
type calandriaRepo struct {
	db       DBTX
	txRunner *TxRunner
}

// NewCalandriaRepository создаёт репозиторий записей каландрий.
// txRunner может быть nil — тогда BatchUpsert выполняется без транзакции.
func NewCalandriaRepository(db DBTX, txRunner *TxRunner) CalandriaRepository {
	return &calandriaRepo{db: db, txRunner: txRunner}
}

const calColumns = `id, report_date, gold_theoretical_oz, gold_actual_oz, efficiency_pct, tonnes_processed, created_by, created_at, updated_at`

const calUpsertQuery = `
	INSERT INTO calandria_records
		(report_date, gold_theoretical_oz, gold_actual_oz, efficiency_pct, tonnes_processed, created_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (report_date) DO UPDATE SET
		gold_theoretical_oz = EXCLUDED.gold_theoretical_oz,
		gold_actual_oz = EXCLUDED.gold_actual_oz,
		efficiency_pct = EXCLUDED.efficiency_pct,
		tonnes_processed = EXCLUDED.tonnes_processed,
		created_by = EXCLUDED.created_by
	RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

func (r *calandriaRepo) Upsert(ctx context.Context, rec *model.CalandriaRecord) error {
	var inserted bool
	err := r.db.QueryRow(ctx, calUpsertQuery,
		rec.ReportDate, rec.GoldTheoreticalOz, rec.GoldActualOz,
		rec.EfficiencyPct, rec.TonnesProcessed, rec.CreatedBy,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt, &inserted)
	if err != nil {
		return fmt.Errorf("ошибка upsert записи каландрии: %w", err)
	}
	return nil
}

func (r *calandriaRepo) BatchUpsert(ctx context.Context, recs []*model.CalandriaRecord) (int, int, error) {
	var added, updated int

	upsertAll := func(db DBTX) error {
		for _, rec := range recs {
			var inserted bool
			err := db.QueryRow(ctx, calUpsertQuery,
				rec.ReportDate, rec.GoldTheoreticalOz, rec.GoldActualOz,
				rec.EfficiencyPct, rec.TonnesProcessed, rec.CreatedBy,
			).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt, &inserted)
			if err != nil {
				return fmt.Errorf("ошибка upsert записи за %s: %w",
					rec.ReportDate.Format("2006-01-02"), err)
			}
			if inserted {
				added++
			} else {
				updated++
			}
		}
		return nil
	}

	// Пакет сохраняется атомарно: либо все строки, либо ни одной
	if r.txRunner != nil {
		err := r.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
			return upsertAll(tx)
		})
		if err != nil {
			return 0, 0, err
		}
		return added, updated, nil
	}

	if err := upsertAll(r.db); err != nil {
		return 0, 0, err
	}
	return added, updated, nil
}

func (r *calandriaRepo) GetByDate(ctx context.Context, date time.Time) (*model.CalandriaRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM calandria_records WHERE report_date = $1`, calColumns)

	rec := &model.CalandriaRecord{}
	err := r.db.QueryRow(ctx, query, date).Scan(
		&rec.ID, &rec.ReportDate, &rec.GoldTheoreticalOz, &rec.GoldActualOz,
		&rec.EfficiencyPct, &rec.TonnesProcessed, &rec.CreatedBy,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи каландрии: %w", err)
	}
	return rec, nil
}

func (r *calandriaRepo) ListRange(ctx context.Context, from, to time.Time) ([]*model.CalandriaRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM calandria_records
		WHERE report_date >= $1 AND report_date <= $2
		ORDER BY report_date ASC`, calColumns)

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей каландрий: %w", err)
	}
	defer rows.Close()

	var result []*model.CalandriaRecord
	for rows.Next() {
		rec := &model.CalandriaRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.ReportDate, &rec.GoldTheoreticalOz, &rec.GoldActualOz,
			&rec.EfficiencyPct, &rec.TonnesProcessed, &rec.CreatedBy,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи каландрии: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *calandriaRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM calandria_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей каландрий: %w", err)
	}
	return count, nil
}
