// Package pricing computes session cost and cancellation refunds. All
// functions are pure; amounts are currency-neutral and rounded to 2 decimal
// places.
package pricing

import (
	"math"
	"time"

	"tutormatch/pkg/model"
)

// TaxRate is the fixed tax applied on the base amount.
const TaxRate = 0.18

// CancellationLeadTime is the minimum interval between cancellation and the
// session start. Cancellations inside this window are rejected outright.
const CancellationLeadTime = 2 * time.Hour

// ComputePrice builds the pricing snapshot for a session:
// base = hourlyRate * minutes/60, tax = base * TaxRate, total = base + tax.
func ComputePrice(hourlyRate float64, durationMin int) model.PricingSnapshot {
	base := roundMoney(hourlyRate * float64(durationMin) / 60)
	tax := roundMoney(base * TaxRate)
	return model.PricingSnapshot{
		BaseAmount:  base,
		TaxAmount:   tax,
		TotalAmount: roundMoney(base + tax),
	}
}

// CanCancel reports whether a booking starting at startsAt may still be
// cancelled at cancelledAt under the lead-time rule.
func CanCancel(startsAt, cancelledAt time.Time) bool {
	return startsAt.Sub(cancelledAt) >= CancellationLeadTime
}

// ComputeRefund returns the refund amount for a permitted cancellation.
// The policy is a flat full refund of the captured total; there is no tiered
// scaling by lead time. Nothing was captured means nothing to refund.
func ComputeRefund(b *model.Booking) float64 {
	if b.Payment.Status != model.PaymentCaptured {
		return 0
	}
	return b.Pricing.TotalAmount
}

// roundMoney rounds to 2 decimal places, half away from zero. The epsilon
// compensates for binary floats landing a hair under an exact half cent
// (277.775 * 100 is 27777.499...), and is far too small to move any real
// money value.
func roundMoney(v float64) float64 {
	if v < 0 {
		return -roundMoney(-v)
	}
	return math.Round(v*100+1e-9) / 100
}
