package audio

import "errors"

// Static errors for audio operations. Callers match them with errors.Is; the
// wrapping error carries the path or codec detail.
var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("audio file not found")
	// ErrUnsupportedFormat is returned for unknown file extensions or bit depths.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrDecode is returned when a codec or demuxer fails.
	ErrDecode = errors.New("audio decode failed")
	// ErrResample is returned when the resampler cannot be built or run.
	ErrResample = errors.New("resample failed")
	// ErrIO is returned for filesystem failures while reading or writing audio.
	ErrIO = errors.New("audio io failed")
)
