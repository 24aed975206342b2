// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMatrix is returned by BuildMatrix when the filtered table has
	// zero titles or zero users.
	ErrEmptyMatrix = errors.New("rating matrix is empty: no titles or users left after filtering")

	// ErrModelNotTrained is returned by queries issued before training.
	ErrModelNotTrained = errors.New("recommendation model not trained")

	// ErrUnknownTitle is returned when a title is not in the TitleIndex.
	ErrUnknownTitle = errors.New("unknown title")

	// ErrTrainingInProgress is returned when Train is called while another
	// training pass is running.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// DataSourceError reports an unreadable or malformed input table.
// It is fatal for the training pass that hit it.
type DataSourceError struct {
	// Source names the table or file (e.g. "ratings", "/data/movies.csv").
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// NewDataSourceError wraps err as a *DataSourceError unless it already is one.
func NewDataSourceError(source string, err error) error {
	if err == nil {
		return nil
	}
	var dse *DataSourceError
	if errors.As(err, &dse) {
		return err
	}
	return &DataSourceError{Source: source, Err: err}
}

// IsDataSourceError reports whether err carries a *DataSourceError.
func IsDataSourceError(err error) bool {
	var dse *DataSourceError
	return errors.As(err, &dse)
}
