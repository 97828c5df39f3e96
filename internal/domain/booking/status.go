package booking

import "github.com/supermarios77/Linglix-sub002/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// transitions is the full lifecycle graph. Terminal statuses have no entry.
// Refund is reachable from any non-terminal status; it is driven through the
// same table so nothing can skip or reverse a step.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusRefunded},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusRefunded},
}

// InactiveStatuses are terminal states that no longer block a tutor's time.
var InactiveStatuses = []Status{StatusCancelled, StatusRefunded}

func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

func IsInactive(s Status) bool {
	return s == StatusCancelled || s == StatusRefunded
}

// ===============================
// Validations
// ===============================

// CanTransition reports whether from -> to is an edge of the lifecycle graph.
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusinessf(
		httperr.CodeInvalidTransition,
		"booking cannot move from %s to %s", from, to,
	)
}

func InitialStatus() Status {
	return StatusPending
}
