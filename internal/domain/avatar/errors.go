package avatar

import "errors"

// ErrModelNotFound is returned when a model id does not resolve.
var ErrModelNotFound = errors.New("model not found")

// ErrVoiceNotFound is returned when a voice id does not resolve.
var ErrVoiceNotFound = errors.New("voice not found")

// ErrInvalidUpload is returned when an uploaded artifact has a missing or
// unsupported file name.
var ErrInvalidUpload = errors.New("invalid upload")
