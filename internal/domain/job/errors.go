package job

import "errors"

// ErrNotFound is returned when a job id does not resolve.
var ErrNotFound = errors.New("job not found")

// ErrReferenceNotFound is returned when the model or voice a job points at
// no longer exists. The scheduler never retries this on its own.
var ErrReferenceNotFound = errors.New("model or voice not found")

// ErrInvalidInput is returned when a job creation request is missing
// required fields.
var ErrInvalidInput = errors.New("invalid job input")

// ErrRemoteTerminalFailure is returned when the render service reports a
// terminal error for a submitted job.
var ErrRemoteTerminalFailure = errors.New("render service reported failure")

// ErrMediaProbeFailure is returned when the finished artifact cannot be
// probed for duration.
var ErrMediaProbeFailure = errors.New("result media is unreadable")

// ErrInvalidTransition is returned when enqueue, cancel or retry is
// requested for a job whose current status does not allow it.
var ErrInvalidTransition = errors.New("invalid job transition")
