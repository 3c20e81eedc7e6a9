package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fasthotel/hotel-api/internal/model"
)

func TestReconcile(t *testing.T) {
	// 3 nights at 100.00 plus 2 × 25.00 of minibar
	const room, consumption = 30000, 5000

	cases := []struct {
		name   string
		paid   int64
		status string
	}{
		{"exact amount due", 33250, model.SettlementPaid},
		{"overpaid", 40000, model.SettlementPaid},
		{"room only", 30000, model.SettlementUnpaid},
		{"one cent short", 33249, model.SettlementUnpaid},
		{"nothing paid", 0, model.SettlementUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Reconcile(room, consumption, tc.paid)
			assert.Equal(t, int64(35000), r.GrossCents)
			assert.Equal(t, int64(33250), r.FinalDueCents)
			assert.Equal(t, int64(DiscountPercent), r.DiscountPercent)
			assert.Equal(t, tc.paid, r.PaidCents)
			assert.Equal(t, tc.status, r.Status)
		})
	}
}

func TestReconcile_FractionalDue(t *testing.T) {
	// 95% of 0.99 is 0.9405: 0.95 settles it, 0.94 does not.
	r := Reconcile(99, 0, 95)
	assert.Equal(t, int64(95), r.FinalDueCents)
	assert.Equal(t, model.SettlementPaid, r.Status)

	r = Reconcile(99, 0, 94)
	assert.Equal(t, model.SettlementUnpaid, r.Status)
}

func TestReconcile_NothingOwed(t *testing.T) {
	r := Reconcile(0, 0, 0)
	assert.Equal(t, int64(0), r.FinalDueCents)
	assert.Equal(t, model.SettlementPaid, r.Status)
}

func TestSums(t *testing.T) {
	charges := []model.Charge{
		{Quantity: 2, UnitPriceCents: 2500},
		{Quantity: 1, UnitPriceCents: 1200},
	}
	payments := []model.Payment{
		{AmountCents: 10000, Status: model.PaymentApproved},
		{AmountCents: 500, Status: model.PaymentRefused},
	}
	assert.Equal(t, int64(6200), SumCharges(charges))
	assert.Equal(t, int64(10500), SumPayments(payments))
	assert.Zero(t, SumCharges(nil))
}
