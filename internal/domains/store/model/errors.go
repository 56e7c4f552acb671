package model

type ErrorCode string

const (
	ErrCodeStoreNotFound  ErrorCode = "STORE_NOT_FOUND"   // 404
	ErrCodeMemberNotFound ErrorCode = "MEMBER_NOT_FOUND"  // 404
	ErrCodeMemberExists   ErrorCode = "MEMBER_EXISTS"     // 409
	ErrCodeNotAMember     ErrorCode = "NOT_A_MEMBER"      // 403
	ErrCodePINNotSet      ErrorCode = "PIN_NOT_SET"       // 400
	ErrCodePINMismatch    ErrorCode = "PIN_MISMATCH"      // 403
	ErrCodeLastOwner      ErrorCode = "LAST_OWNER"        // 400

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
	ErrStoreNotFound = &AppError{
		Code:       ErrCodeStoreNotFound,
		Message:    "Store not found",
		HTTPStatus: 404,
	}

	ErrMemberNotFound = &AppError{
		Code:       ErrCodeMemberNotFound,
		Message:    "Store member not found",
		HTTPStatus: 404,
	}

	ErrMemberExists = &AppError{
		Code:       ErrCodeMemberExists,
		Message:    "User is already a member of this store",
		HTTPStatus: 409,
	}

	ErrNotAMember = &AppError{
		Code:       ErrCodeNotAMember,
		Message:    "Not a member of this store",
		HTTPStatus: 403,
	}

	ErrPINNotSet = &AppError{
		Code:       ErrCodePINNotSet,
		Message:    "No PIN has been set for this member",
		HTTPStatus: 400,
	}

	ErrPINMismatch = &AppError{
		Code:       ErrCodePINMismatch,
		Message:    "Incorrect PIN",
		HTTPStatus: 403,
	}

	// A store always keeps at least one owner.
	ErrLastOwner = &AppError{
		Code:       ErrCodeLastOwner,
		Message:    "Cannot remove or demote the last owner of a store",
		HTTPStatus: 400,
	}
)
