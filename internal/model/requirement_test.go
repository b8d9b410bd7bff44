package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPendingQuantityFallback(t *testing.T) {
	// Stored pending wins when present.
	require.Equal(t, 4, LineItem{Requested: 10, Assigned: 2, Pending: 4}.PendingQuantity())

	// Documents written before the pending counter existed fall back to
	// requested - assigned.
	require.Equal(t, 8, LineItem{Requested: 10, Assigned: 2}.PendingQuantity())

	// Over-assigned legacy documents never report negative pending.
	require.Equal(t, 0, LineItem{Requested: 5, Assigned: 9}.PendingQuantity())
}

func TestAssignmentIsTerminal(t *testing.T) {
	require.True(t, Assignment{Status: AssignmentStatusReceived}.IsTerminal())
	require.True(t, Assignment{Status: AssignmentStatusCancelled}.IsTerminal())
	require.False(t, Assignment{Status: AssignmentStatusInTransit}.IsTerminal())
}
