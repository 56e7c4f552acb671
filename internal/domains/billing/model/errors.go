package model

type ErrorCode string

const (
	ErrCodeBillNotFound     ErrorCode = "BILL_NOT_FOUND"      // 404
	ErrCodeHeldBillNotFound ErrorCode = "HELD_BILL_NOT_FOUND" // 404
	ErrCodeDuplicateKey     ErrorCode = "DUPLICATE_IDEMPOTENCY_KEY" // 409
	ErrCodeBillCancelled    ErrorCode = "BILL_CANCELLED"      // 400

	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"  // 400
	ErrCodeInternalError    ErrorCode = "SYS_INTERNAL_ERROR" // 500
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
	ErrBillNotFound = &AppError{
		Code:       ErrCodeBillNotFound,
		Message:    "Bill not found",
		HTTPStatus: 404,
	}

	ErrHeldBillNotFound = &AppError{
		Code:       ErrCodeHeldBillNotFound,
		Message:    "Held bill not found",
		HTTPStatus: 404,
	}

	// The unique index on (store_id, idempotency_key) is the only source
	// of duplicate detection; retries with the same key land here.
	ErrDuplicateIdempotencyKey = &AppError{
		Code:       ErrCodeDuplicateKey,
		Message:    "A bill with this idempotency key already exists",
		HTTPStatus: 409,
	}

	ErrBillCancelled = &AppError{
		Code:       ErrCodeBillCancelled,
		Message:    "Bill has been cancelled",
		HTTPStatus: 400,
	}
)
