package service

import (
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/billing/model"
)

// LineInput is one bill line before computation.
type LineInput struct {
	UnitPrice     decimal.Decimal
	Quantity      int
	DiscountType  string // "", "flat" or "percentage"
	DiscountValue decimal.Decimal
	CGSTRate      decimal.Decimal
	SGSTRate      decimal.Decimal
}

// LineAmounts holds the computed amounts for one bill line.
type LineAmounts struct {
	Base     decimal.Decimal `json:"base"`
	Discount decimal.Decimal `json:"discount"`
	Taxable  decimal.Decimal `json:"taxable"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// BillCalculator computes per-line amounts. Pure and stateless; the same
// arithmetic backs bill persistence and the numbers a client previews.
type BillCalculator struct{}

func NewBillCalculator() *BillCalculator {
	return &BillCalculator{}
}

// ComputeLine runs the line arithmetic:
//
//	base    = unit_price × quantity
//	discount: percentage → base × value / 100; flat → min(value, base)
//	taxable = max(0, base − discount)
//	cgst    = taxable × cgst_rate / 100  (sgst likewise)
//	total   = taxable + cgst + sgst
func (c *BillCalculator) ComputeLine(in LineInput) LineAmounts {
	hundred := decimal.NewFromInt(100)

	base := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))

	var discount decimal.Decimal
	switch in.DiscountType {
	case "percentage":
		discount = base.Mul(in.DiscountValue).Div(hundred)
	case "flat":
		discount = in.DiscountValue
		if discount.GreaterThan(base) {
			discount = base
		}
	default:
		discount = decimal.Zero
	}

	taxable := base.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	cgst := taxable.Mul(in.CGSTRate).Div(hundred)
	sgst := taxable.Mul(in.SGSTRate).Div(hundred)
	tax := cgst.Add(sgst)

	return LineAmounts{
		Base:     base,
		Discount: discount,
		Taxable:  taxable,
		CGST:     cgst,
		SGST:     sgst,
		Tax:      tax,
		Total:    taxable.Add(tax),
	}
}

// BuildBillItem computes a full bill line from a request line.
func (c *BillCalculator) BuildBillItem(lineNo int, req model.BillLineRequest) model.BillItem {
	in := LineInput{
		UnitPrice: decimal.NewFromFloat(req.UnitPrice),
		Quantity:  req.Quantity,
		CGSTRate:  decimal.NewFromFloat(req.CGSTRate),
		SGSTRate:  decimal.NewFromFloat(req.SGSTRate),
	}
	if req.DiscountType != nil {
		in.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		in.DiscountValue = decimal.NewFromFloat(*req.DiscountValue)
	}

	amounts := c.ComputeLine(in)

	return model.BillItem{
		LineNo:         lineNo,
		ItemID:         req.ItemID,
		ItemKind:       req.ItemKind,
		Name:           req.Name,
		StaffID:        req.StaffID,
		UnitPrice:      in.UnitPrice,
		Quantity:       req.Quantity,
		DiscountType:   req.DiscountType,
		DiscountValue:  in.DiscountValue,
		CGSTRate:       in.CGSTRate,
		SGSTRate:       in.SGSTRate,
		BaseAmount:     amounts.Base,
		DiscountAmount: amounts.Discount,
		TaxableAmount:  amounts.Taxable,
		CGSTAmount:     amounts.CGST,
		SGSTAmount:     amounts.SGST,
		TaxAmount:      amounts.Tax,
		TotalAmount:    amounts.Total,
	}
}
