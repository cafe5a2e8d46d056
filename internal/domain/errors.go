package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a stage receives no rows to work on
	ErrEmptyInput = errors.New("empty input")

	// ErrInsufficientData is returned when there are fewer rows than clusters
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidData marks rows whose values cannot be used in a calculation
	ErrInvalidData = errors.New("invalid data")
)

// InsufficientDataError reports how many distinct rows were available for clustering
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d distinct locations, need at least %d", e.Have, e.Need)
}

// Is lets errors.Is match ErrInsufficientData
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// DataError flags a row whose values make a metric undefined
type DataError struct {
	Location Location
	Period   Period
	Field    string
	Reason   string
}

func (e *DataError) Error() string {
	switch {
	case e.Location != "" && e.Period != "":
		return fmt.Sprintf("invalid data for %s (%s): %s %s", e.Location, e.Period, e.Field, e.Reason)
	case e.Location != "":
		return fmt.Sprintf("invalid data for %s: %s %s", e.Location, e.Field, e.Reason)
	default:
		return fmt.Sprintf("invalid data: %s %s", e.Field, e.Reason)
	}
}

// Is lets errors.Is match ErrInvalidData
func (e *DataError) Is(target error) bool {
	return target == ErrInvalidData
}
