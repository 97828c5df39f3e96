package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supermarios77/Linglix-sub002/internal/httperr"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusPending, StatusRefunded},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusRefunded},
	}
	for _, tc := range allowed {
		assert.NoError(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	all := []Status{
		StatusPending, StatusConfirmed, StatusCompleted,
		StatusCancelled, StatusRefunded,
	}
	isAllowed := func(from, to Status) bool {
		for _, tc := range allowed {
			if tc.from == from && tc.to == to {
				return true
			}
		}
		return false
	}

	// Every edge not in the graph must be rejected, including self loops
	// and anything out of a terminal status.
	for _, from := range all {
		for _, to := range all {
			if isAllowed(from, to) {
				continue
			}
			err := CanTransition(from, to)
			require.Error(t, err, "%s -> %s", from, to)
			assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusConfirmed))
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.True(t, IsTerminal(StatusRefunded))
}

func TestIsInactive(t *testing.T) {
	assert.True(t, IsInactive(StatusCancelled))
	assert.True(t, IsInactive(StatusRefunded))

	// Completed is terminal but it still occupied the tutor's time.
	assert.False(t, IsInactive(StatusCompleted))
	assert.False(t, IsInactive(StatusPending))
	assert.False(t, IsInactive(StatusConfirmed))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPending, InitialStatus())
}
