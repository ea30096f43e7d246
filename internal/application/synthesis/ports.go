package synthesis

import (
	"context"
	"time"

	"talkinghead/internal/domain/avatar"
	"talkinghead/internal/domain/job"
)

// JobStore is the application port for job persistence. Implementations
// must order multi-row reads by creation time ascending and apply Update
// as a single atomic write per call.
type JobStore interface {
	Insert(ctx context.Context, j *job.Job) error
	GetByID(ctx context.Context, id string) (*job.Job, error)
	ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error)
	// FindFirstByStatus returns the earliest-created job in the given
	// status, or (nil, nil) when there is none.
	FindFirstByStatus(ctx context.Context, status job.Status) (*job.Job, error)
	Update(ctx context.Context, id string, patch job.Patch) error
	Remove(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[job.Status]int64, error)
	RemoveTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ModelLookup resolves face model references.
type ModelLookup interface {
	GetModel(ctx context.Context, id string) (*avatar.Model, error)
}

// VoiceLookup resolves voice profile references.
type VoiceLookup interface {
	GetVoice(ctx context.Context, id string) (*avatar.Voice, error)
}

// SpeechGateway turns script text into an audio artifact using the voice's
// reference audio and transcript. Blocking remote call.
type SpeechGateway interface {
	Synthesize(ctx context.Context, voice *avatar.Voice, text string) (string, error)
}

// RenderGateway is the submit/poll contract of the remote render service.
type RenderGateway interface {
	Submit(ctx context.Context, audioPath, modelVideoPath string) (job.SubmitResult, error)
	Poll(ctx context.Context, handle string) (job.PollResult, error)
}

// MediaProber extracts the playable duration of a produced artifact.
type MediaProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}
