package model

import "fmt"

type ErrorCode string

const (
	ErrCodeBookingNotFound   ErrorCode = "BOOKING_NOT_FOUND"   // 404
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"  // 400
	ErrCodeBookingFinal      ErrorCode = "BOOKING_FINAL"       // 400
	ErrCodePastSchedule      ErrorCode = "SCHEDULE_IN_PAST"    // 400

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
	ErrBookingNotFound = &AppError{
		Code:       ErrCodeBookingNotFound,
		Message:    "Booking not found",
		HTTPStatus: 404,
	}

	ErrPastSchedule = &AppError{
		Code:       ErrCodePastSchedule,
		Message:    "Bookings cannot be scheduled in the past",
		HTTPStatus: 400,
	}
)

// ErrInvalidTransition names both states so the client can explain the
// rejection.
func ErrInvalidTransition(from, to BookingStatus) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidTransition,
		Message:    fmt.Sprintf("Cannot move booking from %s to %s", from, to),
		HTTPStatus: 400,
		Details: map[string]interface{}{
			"from": from,
			"to":   to,
		},
	}
}

func ErrBookingFinal(status BookingStatus) *AppError {
	return &AppError{
		Code:       ErrCodeBookingFinal,
		Message:    fmt.Sprintf("Booking is %s and can no longer be modified", status),
		HTTPStatus: 400,
	}
}
