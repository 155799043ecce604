package repository

import (
	"context"
)

type AdminRepository interface {
	Reset(ctx context.Context) error
}

type PGAdminRepository struct {
	units TxRunner
}

func NewAdminRepository(units TxRunner) AdminRepository {
	return &PGAdminRepository{units: units}
}

// Reset clears all booking state atomically: either every table is wiped or
// none is.
func (r *PGAdminRepository) Reset(ctx context.Context) error {
	return r.units.Run(ctx, func(ctx context.Context, l Ledger) error {
		return l.ClearAll(ctx)
	})
}

var _ AdminRepository = (*PGAdminRepository)(nil)
