// internal/billing/billing.go
package billing

import (
	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Fees is the admin-entered fee breakdown of an invoice.
type Fees struct {
	Platform    float64
	Logistics   float64
	Transaction float64
	Service     float64
}

// Total sums the fees at paise precision.
func (f Fees) Total() decimal.Decimal {
	return decimal.NewFromFloat(f.Platform).
		Add(decimal.NewFromFloat(f.Logistics)).
		Add(decimal.NewFromFloat(f.Transaction)).
		Add(decimal.NewFromFloat(f.Service)).
		Round(2)
}

// InvoiceAmount returns explicit when given, otherwise the fee total.
func InvoiceAmount(explicit *float64, fees Fees) float64 {
	if explicit != nil {
		return decimal.NewFromFloat(*explicit).Round(2).InexactFloat64()
	}
	return fees.Total().InexactFloat64()
}

// GSTFlags derives gstApplicable and itcClaimable. Zero-value and repair
// invoices key off the GST number, disposal invoices off a positive amount.
func GSTFlags(kind models.InvoiceType, gstNumber string, amount float64) (gstApplicable, itcClaimable bool) {
	switch kind {
	case models.InvoiceDisposal:
		positive := decimal.NewFromFloat(amount).IsPositive()
		return positive, positive
	default:
		has := gstNumber != ""
		return has, has
	}
}

// ToMinorUnits converts rupees to paise, rounding half away from zero.
func ToMinorUnits(amount float64) (int64, error) {
	d := decimal.NewFromFloat(amount)
	if !d.IsPositive() {
		return 0, apperr.Validation("invoice amount must be greater than zero")
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// RepairEstimate sums the itemised repair costs on an asset.
func RepairEstimate(services []models.RepairService) float64 {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(decimal.NewFromFloat(s.Cost))
	}
	return total.Round(2).InexactFloat64()
}
