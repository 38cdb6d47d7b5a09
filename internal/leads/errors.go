package leads

import "errors"

var (
	// ErrLeadNotFound is returned when a lead id is absent from the store.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidName is returned when the name is missing or blank.
	ErrInvalidName = errors.New("name is required")

	// ErrMissingContact is returned when both email and phone are missing.
	ErrMissingContact = errors.New("either email or phone is required")

	// ErrScoreOutOfRange is returned when a score falls outside 0-100.
	ErrScoreOutOfRange = errors.New("score must be between 0 and 100")

	// ErrNegativeValue is returned when a deal value is negative.
	ErrNegativeValue = errors.New("value must be non-negative")

	// ErrUnknownSource is returned for a source outside the enumeration.
	ErrUnknownSource = errors.New("unknown lead source")
)
