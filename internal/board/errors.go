package board

import "errors"

var (
	// ErrInvalidStage is returned when a move or add targets a stage id
	// that does not belong to the active pipeline, or when the lead lives
	// in a different pipeline than the active one.
	ErrInvalidStage = errors.New("stage not in active pipeline")

	// ErrUnknownSortKey is returned for a sort key outside the enumeration.
	ErrUnknownSortKey = errors.New("unknown sort key")

	// ErrUnknownViewMode is returned for a view mode outside the enumeration.
	ErrUnknownViewMode = errors.New("unknown view mode")

	// ErrUnknownSegment is returned for a segment outside the enumeration.
	ErrUnknownSegment = errors.New("unknown segment")
)
