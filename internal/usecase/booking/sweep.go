package booking

import (
	"context"
	"log"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/timezone"
)

// SweepBatchSize bounds one reconciler run so a backlog cannot make a single
// run unbounded.
const SweepBatchSize = 100

const sweepReason = "tutor did not confirm in time"

type SweepExpired struct {
	repo   domain.Repository
	refund *RefundBooking
}

func NewSweepExpired(
	repo domain.Repository,
	refund *RefundBooking,
) *SweepExpired {
	return &SweepExpired{
		repo:   repo,
		refund: refund,
	}
}

type SweepReport struct {
	Processed        int
	Succeeded        int
	AlreadyRefunded  int
	Failed           int
	SkippedNoPayment int
}

// Execute finds paid bookings that were never confirmed and whose scheduled
// time has passed, and drives each through the refund path. Items are
// processed sequentially and in isolation: one failing gateway call neither
// fans out retries nor aborts the rest of the batch. Overlapping runs are
// safe because the refund itself is idempotent.
func (uc *SweepExpired) Execute(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	expired, err := uc.repo.ListExpiredPending(ctx, timezone.Now(), SweepBatchSize)
	if err != nil {
		return report, err
	}

	for _, b := range expired {
		report.Processed++

		res, err := uc.refund.Execute(ctx, b.ID, sweepReason)
		switch {
		case err == nil && res.AlreadyRefunded:
			report.AlreadyRefunded++
		case err == nil:
			report.Succeeded++
		case httperr.IsBusiness(err, httperr.CodeNoPayment):
			// The payment reference vanished between the select and the
			// refund; nothing to give back.
			report.SkippedNoPayment++
		default:
			report.Failed++
			log.Printf("sweep: refund of booking %d failed: %v", b.ID, err)
		}
	}

	return report, nil
}
