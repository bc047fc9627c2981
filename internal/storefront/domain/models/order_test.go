package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderShipped, true},
		{OrderConfirmed, OrderPending, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, true},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderConfirmed, false},
		{OrderPending, "lost", false},
	}

	for _, c := range cases {
		require.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestMaxPosition(t *testing.T) {
	maxPos, ok := MaxPosition(FamilyHorizontal)
	require.True(t, ok)
	require.Equal(t, MaxHorizontalPosition, maxPos)

	maxPos, ok = MaxPosition(FamilyVertical)
	require.True(t, ok)
	require.Equal(t, MaxVerticalPosition, maxPos)

	_, ok = MaxPosition("diagonal")
	require.False(t, ok)
}
