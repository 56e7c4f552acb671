package model

type ErrorCode string

const (
	ErrCodeCustomerNotFound ErrorCode = "CUSTOMER_NOT_FOUND" // 404
	ErrCodePhoneExists      ErrorCode = "PHONE_EXISTS"       // 409
	ErrCodeWalletShort      ErrorCode = "WALLET_INSUFFICIENT" // 400

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
	ErrCustomerNotFound = &AppError{
		Code:       ErrCodeCustomerNotFound,
		Message:    "Customer not found",
		HTTPStatus: 404,
	}

	ErrPhoneExists = &AppError{
		Code:       ErrCodePhoneExists,
		Message:    "A customer with this phone already exists",
		HTTPStatus: 409,
	}

	ErrWalletInsufficient = &AppError{
		Code:       ErrCodeWalletShort,
		Message:    "Wallet balance is insufficient",
		HTTPStatus: 400,
	}
)
