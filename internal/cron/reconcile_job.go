package cron

import (
	"context"
	"fmt"

	"github.com/bakhasuleiman/wesavefood-backend/internal/reservations"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
)

type reconciler interface {
	Reconcile(ctx context.Context) (reservations.RepairReport, error)
}

// ReconcileJobParams configure the reservation reconcile job.
type ReconcileJobParams struct {
	Logger       *logger.Logger
	Reservations reconciler
}

// NewReconcileJob builds the job that repairs product/reservation drift.
func NewReconcileJob(params ReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reservations == nil {
		return nil, fmt.Errorf("reservation service required")
	}
	return &reconcileJob{logg: params.Logger, reservations: params.Reservations}, nil
}

type reconcileJob struct {
	logg         *logger.Logger
	reservations reconciler
}

func (j *reconcileJob) Name() string { return "reservation_reconcile" }

func (j *reconcileJob) Run(ctx context.Context) error {
	report, err := j.reservations.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconcile reservations: %w", err)
	}
	if report.ProductsReleased > 0 || report.ProductsReserved > 0 {
		ctx = j.logg.WithFields(ctx, map[string]interface{}{
			"products_released": report.ProductsReleased,
			"products_reserved": report.ProductsReserved,
		})
		j.logg.Info(ctx, "reservation drift repaired")
	}
	return nil
}
