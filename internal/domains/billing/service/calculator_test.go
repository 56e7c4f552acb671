package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonsuite-backend/internal/domains/billing/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeLine_PercentageDiscountWithGST(t *testing.T) {
	calc := NewBillCalculator()

	// 2 x 100 with 10% off and 9% + 9% GST
	out := calc.ComputeLine(LineInput{
		UnitPrice:     d("100"),
		Quantity:      2,
		DiscountType:  "percentage",
		DiscountValue: d("10"),
		CGSTRate:      d("9"),
		SGSTRate:      d("9"),
	})

	assert.True(t, d("200").Equal(out.Base), "base = %s", out.Base)
	assert.True(t, d("20").Equal(out.Discount), "discount = %s", out.Discount)
	assert.True(t, d("180").Equal(out.Taxable), "taxable = %s", out.Taxable)
	assert.True(t, d("16.2").Equal(out.CGST), "cgst = %s", out.CGST)
	assert.True(t, d("16.2").Equal(out.SGST), "sgst = %s", out.SGST)
	assert.True(t, d("32.4").Equal(out.Tax), "tax = %s", out.Tax)
	assert.True(t, d("212.4").Equal(out.Total), "total = %s", out.Total)
}

func TestComputeLine_FlatDiscountCappedAtBase(t *testing.T) {
	calc := NewBillCalculator()

	out := calc.ComputeLine(LineInput{
		UnitPrice:     d("50"),
		Quantity:      1,
		DiscountType:  "flat",
		DiscountValue: d("80"),
	})

	assert.True(t, d("50").Equal(out.Discount))
	assert.True(t, out.Taxable.IsZero())
	assert.True(t, out.Total.IsZero())
}

func TestComputeLine_NoDiscountNoTax(t *testing.T) {
	calc := NewBillCalculator()

	out := calc.ComputeLine(LineInput{
		UnitPrice: d("299.50"),
		Quantity:  3,
	})

	assert.True(t, d("898.50").Equal(out.Base))
	assert.True(t, out.Discount.IsZero())
	assert.True(t, d("898.50").Equal(out.Taxable))
	assert.True(t, out.Tax.IsZero())
	assert.True(t, d("898.50").Equal(out.Total))
}

func TestComputeLine_UnknownDiscountTypeIgnored(t *testing.T) {
	calc := NewBillCalculator()

	out := calc.ComputeLine(LineInput{
		UnitPrice:     d("100"),
		Quantity:      1,
		DiscountType:  "bogus",
		DiscountValue: d("50"),
	})

	assert.True(t, out.Discount.IsZero())
	assert.True(t, d("100").Equal(out.Total))
}

func TestBuildBillItem(t *testing.T) {
	calc := NewBillCalculator()

	discountType := "percentage"
	discountValue := 10.0
	req := model.BillLineRequest{
		Name:          "Haircut",
		ItemKind:      "service",
		UnitPrice:     100,
		Quantity:      2,
		DiscountType:  &discountType,
		DiscountValue: &discountValue,
		CGSTRate:      9,
		SGSTRate:      9,
	}

	item := calc.BuildBillItem(1, req)

	require.Equal(t, 1, item.LineNo)
	assert.Equal(t, "Haircut", item.Name)
	assert.True(t, d("200").Equal(item.BaseAmount))
	assert.True(t, d("20").Equal(item.DiscountAmount))
	assert.True(t, d("180").Equal(item.TaxableAmount))
	assert.True(t, d("32.4").Equal(item.TaxAmount))
	assert.True(t, d("212.4").Equal(item.TotalAmount))
}
