package model

import "errors"

var (
	// ErrShapeMismatch is returned when an animation target cannot be
	// aligned element-wise with the previous series.
	ErrShapeMismatch = errors.New("series shape mismatch")

	// ErrInvalidGranularity is returned for unknown zoom levels.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrCalendarFieldMissing is returned when a point lacks a calendar
	// field the aggregation groups by.
	ErrCalendarFieldMissing = errors.New("calendar field missing")

	// ErrInvalidWindow is returned when a window starts after it ends.
	ErrInvalidWindow = errors.New("invalid window")

	// ErrInvalidDirection is returned for unknown shift directions.
	ErrInvalidDirection = errors.New("invalid direction")
)
