package utils

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func ParseFloatToDecimal(number *float64) *decimal.Decimal {
	if number == nil {
		return nil
	}
	d := decimal.NewFromFloat(*number)
	return &d
}

func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

func IsValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}

// NormalizePagination clamps page/limit to sane bounds (1-based page, limit <= 100).
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// TotalPages computes page count for list metadata.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
