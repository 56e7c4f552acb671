package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateItemRequest struct {
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CGSTRate    float64 `json:"cgst_rate"`
	SGSTRate    float64 `json:"sgst_rate"`

	DurationMinutes *int `json:"duration_minutes,omitempty"`
	StockQuantity   *int `json:"stock_quantity,omitempty"`
	ValidityDays    *int `json:"validity_days,omitempty"`
}

func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind,
			validation.Required.Error("kind is required"),
			validation.In("service", "product", "membership").Error("kind must be service, product or membership"),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 160).Error("name must be 1-160 characters"),
		),
		validation.Field(&r.Price, validation.Min(0.0).Error("price cannot be negative")),
		validation.Field(&r.CGSTRate, validation.Min(0.0).Error("cgst_rate cannot be negative"), validation.Max(100.0)),
		validation.Field(&r.SGSTRate, validation.Min(0.0).Error("sgst_rate cannot be negative"), validation.Max(100.0)),
	)
}

// UpdateItemRequest carries only the fields to change; nil means keep.
// The item's kind is immutable after creation.
type UpdateItemRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	CGSTRate    *float64 `json:"cgst_rate,omitempty"`
	SGSTRate    *float64 `json:"sgst_rate,omitempty"`

	DurationMinutes *int  `json:"duration_minutes,omitempty"`
	StockQuantity   *int  `json:"stock_quantity,omitempty"`
	ValidityDays    *int  `json:"validity_days,omitempty"`
	Active          *bool `json:"active,omitempty"`
}

func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 160).Error("name must be 1-160 characters")),
		validation.Field(&r.Price, validation.Min(0.0).Error("price cannot be negative")),
		validation.Field(&r.CGSTRate, validation.Min(0.0).Error("cgst_rate cannot be negative"), validation.Max(100.0)),
		validation.Field(&r.SGSTRate, validation.Min(0.0).Error("sgst_rate cannot be negative"), validation.Max(100.0)),
	)
}

type ListItemsFilter struct {
	Kind   string `form:"kind"`
	Search string `form:"search"`
	Active *bool  `form:"active"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
}

func (f *ListItemsFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}
