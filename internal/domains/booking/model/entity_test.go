package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{StatusRequested, StatusConfirmed},
		{StatusRequested, StatusCancelled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusNoShow},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to BookingStatus }{
		{StatusRequested, StatusCompleted},
		{StatusRequested, StatusInProgress},
		{StatusConfirmed, StatusCompleted},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		{StatusNoShow, StatusConfirmed},
		{StatusInProgress, StatusNoShow},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}
