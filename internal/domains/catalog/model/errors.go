package model

type ErrorCode string

const (
	ErrCodeItemNotFound ErrorCode = "ITEM_NOT_FOUND" // 404
	ErrCodeItemExists   ErrorCode = "ITEM_EXISTS"    // 409

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
	ErrItemNotFound = &AppError{
		Code:       ErrCodeItemNotFound,
		Message:    "Catalog item not found",
		HTTPStatus: 404,
	}

	ErrItemExists = &AppError{
		Code:       ErrCodeItemExists,
		Message:    "An item with this name already exists",
		HTTPStatus: 409,
	}
)
