package service

import "github.com/fasthotel/hotel-api/internal/model"

// DiscountPercent is taken off the gross amount of every stay.
const DiscountPercent = 5

// Reconcile settles a reservation: gross is the room total plus
// consumption, the amount due is gross less the discount, and the stay is
// paid once payments cover it. The comparison is done on the exact
// discounted value (scaled by 100) so no rounding can flip the status.
// FinalDueCents is that value rounded up to the cent, the smallest payment
// that settles the bill.
func Reconcile(roomTotalCents, consumptionCents, paidCents int64) model.Reconciliation {
	gross := roomTotalCents + consumptionCents
	due := gross * (100 - DiscountPercent) // cents × 100

	status := model.SettlementUnpaid
	if paidCents*100 >= due {
		status = model.SettlementPaid
	}

	return model.Reconciliation{
		RoomTotalCents:   roomTotalCents,
		ConsumptionCents: consumptionCents,
		GrossCents:       gross,
		DiscountPercent:  DiscountPercent,
		FinalDueCents:    ceilDiv100(due),
		PaidCents:        paidCents,
		Status:           status,
	}
}

func ceilDiv100(v int64) int64 {
	if v <= 0 {
		return -((-v) / 100)
	}
	return (v + 99) / 100
}

// SumCharges totals quantity × unit price over charges.
func SumCharges(charges []model.Charge) int64 {
	var total int64
	for _, c := range charges {
		total += c.SubtotalCents()
	}
	return total
}

// SumPayments totals every payment amount regardless of its status.
func SumPayments(payments []model.Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.AmountCents
	}
	return total
}
