package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbox/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbox/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool dbPool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency counts boxes and entries that break ledger invariants.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (usecase.ConsistencyStats, error) {
	var stats usecase.ConsistencyStats
	err := readSnapshot(ctx, r.pool, func(q *generated.Queries) error {
		row, err := q.CheckLedgerConsistency(ctx)
		if err != nil {
			return err
		}
		stats = usecase.ConsistencyStats{
			OpenWithCounts:      row.OpenWithCounts,
			ClosedWithoutCounts: row.ClosedWithoutCounts,
			NonPositiveEntries:  row.NonPositiveEntries,
			BoxesChecked:        row.BoxesChecked,
		}
		return nil
	})

	return stats, err
}
