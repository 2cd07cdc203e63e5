// Package export writes edit reports as JSON, CMX-style EDL and marker
// files for waveform editors.
package export

import "errors"

// Static errors for report export.
var (
	// ErrSerialization is returned when a report cannot be encoded or written.
	ErrSerialization = errors.New("report serialization failed")
	// ErrInvalidFrameRate is returned for non-positive or non-finite EDL frame rates.
	ErrInvalidFrameRate = errors.New("invalid frame rate")
	// ErrUnknownFormat is returned for an export format name that is not recognized.
	ErrUnknownFormat = errors.New("unknown export format")
)
