package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type CreateStoreRequest struct {
	Name     string  `json:"name"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	GSTIN    *string `json:"gstin,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
}

func (r CreateStoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 120).Error("name must be 1-120 characters"),
		),
		validation.Field(&r.Phone, is.E164.Error("phone must be in E.164 format")),
	)
}

// UpdateStoreRequest carries only the fields to change; nil means keep.
type UpdateStoreRequest struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	GSTIN    *string `json:"gstin,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}

func (r UpdateStoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 120).Error("name must be 1-120 characters")),
		validation.Field(&r.Phone, is.E164.Error("phone must be in E.164 format")),
	)
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func (r AddMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required.Error("user_id is required")),
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			validation.In("staff", "manager", "owner").Error("role must be staff, manager or owner"),
		),
	)
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

func (r UpdateMemberRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			validation.In("staff", "manager", "owner").Error("role must be staff, manager or owner"),
		),
	)
}

type SetPINRequest struct {
	PIN string `json:"pin"`
}

func (r SetPINRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PIN,
			validation.Required.Error("pin is required"),
			validation.Length(4, 6).Error("pin must be 4-6 digits"),
			is.Digit.Error("pin must contain only digits"),
		),
	)
}

type VerifyPINRequest struct {
	PIN string `json:"pin"`
}

func (r VerifyPINRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PIN, validation.Required.Error("pin is required")),
	)
}
