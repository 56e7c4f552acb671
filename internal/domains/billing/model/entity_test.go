package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveBillStatus(t *testing.T) {
	cases := []struct {
		name  string
		grand string
		paid  string
		want  BillStatus
	}{
		{"nothing paid", "500", "0", BillStatusUnpaid},
		{"partially paid", "500", "200", BillStatusPartial},
		{"fully paid", "500", "500", BillStatusPaid},
		{"overpaid", "500", "600", BillStatusPaid},
		{"zero total zero paid", "0", "0", BillStatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grand, _ := decimal.NewFromString(tc.grand)
			paid, _ := decimal.NewFromString(tc.paid)
			assert.Equal(t, tc.want, DeriveBillStatus(grand, paid))
		})
	}
}
