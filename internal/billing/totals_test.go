package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(cantidad, precio string) Line {
	return Line{
		Cantidad:       decimal.RequireFromString(cantidad),
		PrecioUnitario: decimal.RequireFromString(precio),
	}
}

func TestComputeTotals(t *testing.T) {
	totals, err := ComputeTotals([]Line{line("10", "50")}, DefaultIVARate)
	require.NoError(t, err)

	assert.Equal(t, "500.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "105.00", totals.IVA.StringFixed(2))
	assert.Equal(t, "605.00", totals.Total.StringFixed(2))
}

func TestComputeTotalsMultipleLines(t *testing.T) {
	lines := []Line{
		line("2", "19.99"),
		line("1.5", "10"),
		line("3", "0.10"),
	}
	totals, err := ComputeTotals(lines, DefaultIVARate)
	require.NoError(t, err)

	// 39.98 + 15.00 + 0.30 = 55.28
	assert.Equal(t, "55.28", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "11.61", totals.IVA.StringFixed(2))
	assert.Equal(t, "66.89", totals.Total.StringFixed(2))
	require.Len(t, totals.LineTotals, 3)
	assert.Equal(t, "39.98", totals.LineTotals[0].StringFixed(2))
}

func TestComputeTotalsOrderIndependent(t *testing.T) {
	a := []Line{line("1", "0.10"), line("7", "3.33"), line("2", "99.99")}
	b := []Line{line("2", "99.99"), line("1", "0.10"), line("7", "3.33")}

	ta, err := ComputeTotals(a, DefaultIVARate)
	require.NoError(t, err)
	tb, err := ComputeTotals(b, DefaultIVARate)
	require.NoError(t, err)

	assert.True(t, ta.Subtotal.Equal(tb.Subtotal))
	assert.True(t, ta.IVA.Equal(tb.IVA))
	assert.True(t, ta.Total.Equal(tb.Total))
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals, err := ComputeTotals(nil, DefaultIVARate)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.IVA.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsNoBinaryDrift(t *testing.T) {
	// 0.1 * 3 must be exactly 0.30, not 0.30000000000000004.
	totals, err := ComputeTotals([]Line{line("3", "0.1")}, DefaultIVARate)
	require.NoError(t, err)
	assert.Equal(t, "0.30", totals.Subtotal.StringFixed(2))
}

func TestComputeTotalsRejectsNegative(t *testing.T) {
	_, err := ComputeTotals([]Line{line("-1", "10")}, DefaultIVARate)
	assert.Error(t, err)

	_, err = ComputeTotals([]Line{line("1", "-10")}, DefaultIVARate)
	assert.Error(t, err)
}
