package pipeline

import "errors"

var (
	// ErrPipelineNotFound is returned when a pipeline id is absent from the catalog.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrNoDefault is returned when the catalog holds no default pipeline.
	ErrNoDefault = errors.New("no default pipeline configured")
)
