// Package billing holds the pure document arithmetic: line totals, IVA and
// document number formatting. Everything here is side-effect free.
package billing

import (
	"backend/internal/apperr"

	"github.com/shopspring/decimal"
)

// DefaultIVARate is the fixed Spanish VAT rate applied uniformly to all lines.
var DefaultIVARate = decimal.NewFromFloat(0.21)

// Line is the input for totals computation: a quantity and a unit price.
type Line struct {
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// Totals carries the derived document figures, rounded to 2 decimals.
type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	IVA        decimal.Decimal
	Total      decimal.Decimal
}

// ComputeTotals derives line totals, subtotal, tax and grand total for the
// given lines at the given rate. Negative quantities or prices are rejected;
// there is no coerce-to-zero leniency here, malformed input must be caught at
// the boundary before reaching this function.
//
// lineTotal = cantidad × precioUnitario, subtotal = Σ lineTotal,
// iva = subtotal × rate, total = subtotal + iva. Derived figures are rounded
// half-up to 2 decimals.
func ComputeTotals(lines []Line, rate decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, 0, len(lines))

	for i, l := range lines {
		if l.Cantidad.IsNegative() {
			return Totals{}, apperr.Validationf("linea %d: cantidad negativa", i+1)
		}
		if l.PrecioUnitario.IsNegative() {
			return Totals{}, apperr.Validationf("linea %d: precio unitario negativo", i+1)
		}
		lineTotal := l.Cantidad.Mul(l.PrecioUnitario).Round(2)
		lineTotals = append(lineTotals, lineTotal)
		subtotal = subtotal.Add(lineTotal)
	}

	subtotal = subtotal.Round(2)
	iva := subtotal.Mul(rate).Round(2)

	return Totals{
		LineTotals: lineTotals,
		Subtotal:   subtotal,
		IVA:        iva,
		Total:      subtotal.Add(iva),
	}, nil
}
