package reconciler

import (
	"context"
	"log"
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/lock"
	booking "github.com/supermarios77/Linglix-sub002/internal/usecase/booking"
)

const leaseName = "booking-expiry-sweep"

type sweeper interface {
	Execute(ctx context.Context) (booking.SweepReport, error)
}

// Scheduler runs the refund/expiry sweep on a fixed interval. The redis
// lease keeps overlapping deployments from sweeping at the same moment, but
// it is only an optimization: correctness comes from the refund being
// idempotent, so a lost or expired lease never causes double refunds.
type Scheduler struct {
	sweep    sweeper
	lease    lock.Lease
	interval time.Duration
}

func New(sweep sweeper, lease lock.Lease, interval time.Duration) *Scheduler {
	return &Scheduler{
		sweep:    sweep,
		lease:    lease,
		interval: interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("reconciler started, interval %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("reconciler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.lease != nil {
		ok, err := s.lease.Acquire(ctx, leaseName, s.interval)
		if err != nil {
			// Redis being down must not stop refunds; run anyway.
			log.Printf("reconciler lease error, sweeping without it: %v", err)
		} else if !ok {
			return
		}
	}

	report, err := s.sweep.Execute(ctx)
	if err != nil {
		log.Printf("reconciler sweep failed: %v", err)
		return
	}

	if report.Processed > 0 {
		log.Printf(
			"reconciler: processed=%d refunded=%d already_refunded=%d failed=%d skipped_no_payment=%d",
			report.Processed, report.Succeeded, report.AlreadyRefunded,
			report.Failed, report.SkippedNoPayment,
		)
	}
}
