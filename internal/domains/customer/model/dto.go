package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateCustomerRequest struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Email  *string `json:"email,omitempty"`
	Gender *string `json:"gender,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func (r CreateCustomerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 120).Error("name must be 1-120 characters"),
		),
		validation.Field(&r.Phone, validation.Required.Error("phone is required")),
		validation.Field(&r.Email, is.Email.Error("email must be a valid address")),
		validation.Field(&r.Gender,
			validation.In("male", "female", "other").Error("gender must be male, female or other"),
		),
	)
}

// UpdateCustomerRequest carries only the fields to change; nil means keep.
type UpdateCustomerRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Email  *string `json:"email,omitempty"`
	Gender *string `json:"gender,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func (r UpdateCustomerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 120).Error("name must be 1-120 characters")),
		validation.Field(&r.Email, is.Email.Error("email must be a valid address")),
		validation.Field(&r.Gender,
			validation.In("male", "female", "other").Error("gender must be male, female or other"),
		),
	)
}

type AddAdvanceRequest struct {
	Amount float64 `json:"amount"`
	Note   *string `json:"note,omitempty"`
}

func (r AddAdvanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount,
			validation.Required.Error("amount is required"),
			validation.Min(0.01).Error("amount must be positive"),
		),
	)
}

type ListCustomersFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
}

func (f *ListCustomersFilter) Normalize() {
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
