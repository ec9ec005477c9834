package domain

import "errors"

// Common errors
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id format")
	ErrForbidden = errors.New("access forbidden: you don't own this resource")

	// ErrValidation wraps malformed program or catalog input.
	ErrValidation = errors.New("validation failed")
)

// Invalid target errors: the caller addressed a day or position that does not exist.
var (
	ErrInvalidDay        = errors.New("day must be between 1 and 7")
	ErrDayNotInitialized = errors.New("day is not initialized")
	ErrIndexOutOfRange   = errors.New("exercise index out of range")
)

// Invariant violations: the request would leave an instance or a day in an invalid shape.
var (
	ErrTypeChange          = errors.New("exercise type cannot be changed by update; remove and add a new instance")
	ErrIDChange            = errors.New("exercise id cannot be changed")
	ErrOrderIndexPatch     = errors.New("order_index cannot be patched; use move")
	ErrUnknownDiscipline   = errors.New("unknown exercise discipline")
	ErrInvalidPrescription = errors.New("invalid prescription")
	ErrMissingPrescription = errors.New("exercise instance has no prescription")
	ErrDuplicateInstance   = errors.New("exercise instance id already present in day")
	ErrSupersetMismatch    = errors.New("superset pairing requires two distinct resistance exercises")
)

// IsInvalidTarget reports whether err was caused by addressing a missing day or position.
func IsInvalidTarget(err error) bool {
	return errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrDayNotInitialized) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrProgramNotFound)
}

// IsInvariantViolation reports whether err rejected a mutation that would break an instance invariant.
func IsInvariantViolation(err error) bool {
	for _, target := range []error{
		ErrTypeChange, ErrIDChange, ErrOrderIndexPatch, ErrUnknownDiscipline,
		ErrInvalidPrescription, ErrMissingPrescription, ErrDuplicateInstance, ErrSupersetMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func invalidf(format string, args ...any) error {
	return errorf(ErrInvalidPrescription, format, args...)
}
