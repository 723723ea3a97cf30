package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Request errors
	ErrValidation = &Error{Code: "VALIDATION_FAILED", Message: "invalid request"}

	// Provider errors
	ErrTickerUnavailable = &Error{Code: "TICKER_UNAVAILABLE", Message: "no price history for ticker"}
	ErrProviderFailed    = &Error{Code: "PROVIDER_FAILED", Message: "price history provider failed"}

	// Structural computation errors: these abort the whole analysis
	ErrInsufficientData    = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient data for the requested timeline"}
	ErrEmptySeries         = &Error{Code: "EMPTY_SERIES", Message: "series empty after resampling"}
	ErrInvalidInitialPrice = &Error{Code: "INVALID_INITIAL_PRICE", Message: "initial price must be positive"}
	ErrInvalidFinalPrice   = &Error{Code: "INVALID_FINAL_PRICE", Message: "final price must be positive"}
	ErrNoTradingPeriods    = &Error{Code: "NO_TRADING_PERIODS", Message: "no trading periods in range"}
	ErrResampleFailed      = &Error{Code: "RESAMPLE_FAILED", Message: "resampling failed"}

	// Insight errors: never fatal to an analysis
	ErrInsightFailed = &Error{Code: "INSIGHT_FAILED", Message: "insight generation failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
