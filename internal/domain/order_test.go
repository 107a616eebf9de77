package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  OrderStatus
		ok    bool
	}{
		{name: "pending", input: "Pending", want: StatusPending, ok: true},
		{name: "preparing", input: "Preparing", want: StatusPreparing, ok: true},
		{name: "shipping", input: "Shipping", want: StatusShipping, ok: true},
		{name: "delivered", input: "Delivered", want: StatusDelivered, ok: true},
		{name: "refuse", input: "Refuse", want: StatusRefuse, ok: true},
		{name: "rejected", input: "Rejected", want: StatusRejected, ok: true},
		{name: "lowercase is not accepted", input: "pending", ok: false},
		{name: "unknown value", input: "Cancelled", ok: false},
		{name: "empty string", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOrderStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusRejected},
		{StatusPreparing, StatusShipping},
		{StatusShipping, StatusDelivered},
		{StatusShipping, StatusRefuse},
	}

	allowedSet := make(map[[2]OrderStatus]bool, len(allowed))
	for _, tr := range allowed {
		allowedSet[[2]OrderStatus{tr.from, tr.to}] = true
	}

	statuses := []OrderStatus{
		StatusPending, StatusPreparing, StatusShipping,
		StatusDelivered, StatusRefuse, StatusRejected,
	}

	// Полный перебор пар: разрешены ровно перечисленные переходы.
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowedSet[[2]OrderStatus{from, to}]
			assert.Equalf(t, want, from.CanTransitionTo(to), "transition %s -> %s", from, to)
		}
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusPreparing.IsTerminal())
	assert.False(t, StatusShipping.IsTerminal())

	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusRefuse.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestNewOrderStartsPending(t *testing.T) {
	order := NewOrder(1, 2, []OrderLine{NewOrderLine(3, 1, 100)})

	assert.Equal(t, StatusPending, order.Status)
	assert.Len(t, order.Lines, 1)
}
