package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tutormatch/pkg/model"
)

func TestComputePrice(t *testing.T) {
	cases := []struct {
		name             string
		rate             float64
		minutes          int
		base, tax, total float64
	}{
		{"one hour at 800", 800, 60, 800, 144, 944},
		{"half hour at 500", 500, 30, 250, 45, 295},
		{"one hour at 600", 600, 60, 600, 108, 708},
		{"ninety minutes at 700", 700, 90, 1050, 189, 1239},
		{"three hours at 450", 450, 180, 1350, 243, 1593},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := ComputePrice(tc.rate, tc.minutes)
			assert.Equal(t, tc.base, snap.BaseAmount)
			assert.Equal(t, tc.tax, snap.TaxAmount)
			assert.Equal(t, tc.total, snap.TotalAmount)
		})
	}
}

func TestComputePrice_Rounding(t *testing.T) {
	// 333.33/hr for 50 minutes: base 277.78 after rounding, tax 50.00.
	// The exact base is 277.775, which binary floats put a hair under the
	// half cent; rounding must still go up.
	snap := ComputePrice(333.33, 50)
	assert.Equal(t, 277.78, snap.BaseAmount)
	assert.Equal(t, 50.0, snap.TaxAmount)
	assert.Equal(t, 327.78, snap.TotalAmount)

	// 100.01/hr for 30 minutes: exact base 50.005 rounds up to 50.01.
	snap = ComputePrice(100.01, 30)
	assert.Equal(t, 50.01, snap.BaseAmount)
	assert.Equal(t, 9.0, snap.TaxAmount)
	assert.Equal(t, 59.01, snap.TotalAmount)
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.True(t, CanCancel(now.Add(3*time.Hour), now))
	assert.True(t, CanCancel(now.Add(2*time.Hour), now))
	assert.False(t, CanCancel(now.Add(1*time.Hour), now))
	assert.False(t, CanCancel(now.Add(119*time.Minute), now))
	assert.False(t, CanCancel(now.Add(-time.Hour), now))
}

func TestComputeRefund(t *testing.T) {
	paid := &model.Booking{
		Pricing: model.PricingSnapshot{BaseAmount: 600, TaxAmount: 108, TotalAmount: 708},
		Payment: model.PaymentRecord{Status: model.PaymentCaptured},
	}
	assert.Equal(t, 708.0, ComputeRefund(paid))

	unpaid := &model.Booking{
		Pricing: model.PricingSnapshot{BaseAmount: 600, TaxAmount: 108, TotalAmount: 708},
		Payment: model.PaymentRecord{Status: model.PaymentPending},
	}
	assert.Equal(t, 0.0, ComputeRefund(unpaid))
}
