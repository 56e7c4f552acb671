package model

import "errors"

var (
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrInvalidDiscountType = errors.New("invalid discount type")
)

type ErrorCode string

const (
	// Coupon validation errors
	ErrCodeCouponNotFound      ErrorCode = "COUPON_NOT_FOUND"       // 404
	ErrCodeCouponNotStarted    ErrorCode = "COUPON_NOT_STARTED"     // 400
	ErrCodeCouponExpired       ErrorCode = "COUPON_EXPIRED"         // 400
	ErrCodeCouponInactive      ErrorCode = "COUPON_INACTIVE"        // 400
	ErrCodeCouponMinSpend      ErrorCode = "COUPON_MIN_SPEND_NOT_MET"   // 400
	ErrCodeCouponUsageLimit    ErrorCode = "COUPON_USAGE_LIMIT_REACHED" // 400
	ErrCodeCouponNotApplicable ErrorCode = "COUPON_NOT_APPLICABLE"  // 400

	// Admin operation errors
	ErrCodeCouponDuplicateCode ErrorCode = "VAL_DUPLICATE_CODE" // 409

	// Validation errors
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT" // 400

	// System errors
	ErrCodeInternalError ErrorCode = "SYS_INTERNAL_ERROR" // 500
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrCouponNotFound = &AppError{
		Code:       ErrCodeCouponNotFound,
		Message:    "Coupon does not exist or has been disabled",
		HTTPStatus: 404,
	}

	ErrCouponExpired = &AppError{
		Code:       ErrCodeCouponExpired,
		Message:    "Coupon has expired",
		HTTPStatus: 400,
	}

	ErrCouponCodeExists = &AppError{
		Code:       ErrCodeCouponDuplicateCode,
		Message:    "Coupon code already exists for this store",
		HTTPStatus: 409,
	}
)
