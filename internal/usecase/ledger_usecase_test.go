package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
	"github.com/iho/cashbox/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name      string
		stats     usecase.ConsistencyStats
		repoErr   error
		wantOK    bool
		wantErrIs error
	}{
		{
			name:   "consistent",
			stats:  usecase.ConsistencyStats{BoxesChecked: 12},
			wantOK: true,
		},
		{
			name:      "open box with counts",
			stats:     usecase.ConsistencyStats{OpenWithCounts: 1, BoxesChecked: 3},
			wantErrIs: usecase.ErrInconsistentLedger,
		},
		{
			name:      "non-positive entry",
			stats:     usecase.ConsistencyStats{NonPositiveEntries: 2, BoxesChecked: 3},
			wantErrIs: usecase.ErrInconsistentLedger,
		},
		{
			name:      "repository failure",
			repoErr:   errors.New("timeout"),
			wantErrIs: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockLedgerRepository{
				CheckConsistencyFunc: func(context.Context) (usecase.ConsistencyStats, error) {
					return tt.stats, tt.repoErr
				},
			}
			uc := usecase.NewLedgerUseCase(repo)

			ok, err := uc.CheckConsistency(context.Background())
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)

			stats, err := uc.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.stats, stats)
		})
	}
}
