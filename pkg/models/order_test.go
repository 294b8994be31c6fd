package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPendingPayment, StatusConfirmed, true},
		{StatusPendingPayment, StatusCancelled, true},
		{StatusPendingPayment, StatusDelivered, false},
		{StatusPendingPayment, StatusShipped, false},
		{StatusConfirmed, StatusProcessing, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusReturned, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusReturned, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPendingPayment, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusReturned, false},
		{StatusReturned, StatusPendingPayment, false},
		{StatusReturned, StatusCancelled, false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestAbsorbingStates(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())
	assert.False(t, StatusPendingPayment.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("SHIPPED")
	require.True(t, ok)
	assert.Equal(t, StatusShipped, status)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)

	_, ok = ParseOrderStatus("TELEPORTED")
	assert.False(t, ok)
}

func TestCalculateTotals(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: "b1", UnitPrice: 20, Quantity: 2},
			{ProductID: "b2", UnitPrice: 10, Quantity: 1},
		},
	}
	order.CalculateTotals()

	assert.Equal(t, 50.0, order.Subtotal)
	assert.InDelta(t, 6.5, order.Tax, 1e-9)
	assert.Equal(t, 15.0, order.Shipping)
	assert.InDelta(t, 71.5, order.Total, 1e-9)
}

func TestCalculateTotalsFreeShippingAndDiscount(t *testing.T) {
	order := &Order{
		Discount: 25,
		Items: []OrderItem{
			{ProductID: "b1", UnitPrice: 60, Quantity: 2},
		},
	}
	order.CalculateTotals()

	assert.Equal(t, 120.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Shipping)
	assert.InDelta(t, 120*0.13, order.Tax, 1e-9)
	assert.InDelta(t, 120+120*0.13-25, order.Total, 1e-9)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	format := regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)
	for i := 0; i < 100; i++ {
		number := GenerateOrderNumber()
		assert.Truef(t, format.MatchString(number), "unexpected format: %s", number)
	}
}

func TestGenerateOrderNumberUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		number := GenerateOrderNumber()
		_, dup := seen[number]
		require.Falsef(t, dup, "duplicate order number after %d generations: %s", i, number)
		seen[number] = struct{}{}
	}
}
