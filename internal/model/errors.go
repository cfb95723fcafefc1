package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Each typed error below matches its sentinel with errors.Is.
var (
	ErrDataValidation    = errors.New("data validation failed")
	ErrScenarioRange     = errors.New("scenario ratio out of range")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrEmptyFilter       = errors.New("filter matched no records")
	ErrUnknownKPI        = errors.New("unknown KPI")
	ErrNoKPIs            = errors.New("no KPIs selected")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// DataValidationError reports a missing or malformed required field.
// Row is the 1-based data row, or 0 when the problem is in the header.
type DataValidationError struct {
	Field  string
	Row    int
	Value  string
	Reason string
}

func (e *DataValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid field ")
	b.WriteString(e.Field)
	if e.Row > 0 {
		fmt.Fprintf(&b, " (row %d)", e.Row)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	return b.String()
}

// Is matches ErrDataValidation.
func (e *DataValidationError) Is(target error) bool { return target == ErrDataValidation }

// ScenarioRangeError reports an adjustment ratio outside its accepted bounds.
type ScenarioRangeError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *ScenarioRangeError) Error() string {
	return fmt.Sprintf("%s = %.2f%% outside accepted range [%.2f%%, %.2f%%]",
		e.Param, e.Value*100, e.Min*100, e.Max*100)
}

// Is matches ErrScenarioRange.
func (e *ScenarioRangeError) Is(target error) bool { return target == ErrScenarioRange }

// InsufficientDataError reports a forecast attempted on too few distinct time points.
type InsufficientDataError struct {
	Metric string
	Points int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cannot forecast %s: %d distinct month(s), need at least %d",
		e.Metric, e.Points, e.Need)
}

// Is matches ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// EmptyFilterResultError reports a selection that matches zero records.
type EmptyFilterResultError struct {
	Selection Selection
}

func (e *EmptyFilterResultError) Error() string {
	return "no records for " + e.Selection.String()
}

// Is matches ErrEmptyFilter.
func (e *EmptyFilterResultError) Is(target error) bool { return target == ErrEmptyFilter }
