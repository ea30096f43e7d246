package synthesis

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"talkinghead/internal/domain/job"
)

// Service exposes the user-facing job operations. Scheduler-driven
// transitions live in Machine; everything here is called from the request
// path and must hold the transition guards on its own.
type Service struct {
	jobs   JobStore
	models ModelLookup
	voices VoiceLookup
	logger *log.Logger
}

// NewService creates the job use-case service with injected ports.
func NewService(jobs JobStore, models ModelLookup, voices VoiceLookup, logger *log.Logger) *Service {
	return &Service{jobs: jobs, models: models, voices: voices, logger: logger}
}

// CreateDraftInput carries the fields accepted at job creation. AudioPath
// is optional; when set, the synthesis stage uses it as-is and retry keeps
// it instead of forcing regeneration.
type CreateDraftInput struct {
	ModelID    string
	VoiceID    string
	ScriptText string
	AudioPath  string
}

// CreateDraft validates references and stores a new job in draft.
func (s *Service) CreateDraft(ctx context.Context, input CreateDraftInput) (*job.Job, error) {
	text := strings.TrimSpace(input.ScriptText)
	if text == "" && input.AudioPath == "" {
		return nil, fmt.Errorf("%w: script text or audio is required", job.ErrInvalidInput)
	}
	if _, err := s.models.GetModel(ctx, input.ModelID); err != nil {
		return nil, err
	}
	if _, err := s.voices.GetVoice(ctx, input.VoiceID); err != nil {
		return nil, err
	}

	j := &job.Job{
		ID:         uuid.NewString(),
		ModelID:    input.ModelID,
		VoiceID:    input.VoiceID,
		ScriptText: text,
		AudioPath:  input.AudioPath,
		AudioFixed: input.AudioPath != "",
		Status:     job.StatusDraft,
		Message:    "draft",
	}
	if err := s.jobs.Insert(ctx, j); err != nil {
		return nil, err
	}
	s.logger.Printf("job created: %s model=%s voice=%s", j.ID, j.ModelID, j.VoiceID)
	return j, nil
}

// Enqueue moves a draft or failed job into the waiting queue.
func (s *Service) Enqueue(ctx context.Context, id string) (*job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != job.StatusDraft && j.Status != job.StatusFailed {
		return nil, fmt.Errorf("%w: cannot enqueue job in %s", job.ErrInvalidTransition, j.Status)
	}

	patch := job.Patch{
		Status:   ptr(job.StatusWaiting),
		Progress: ptr(0),
		Message:  ptr("queued"),
	}
	if err := s.jobs.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	s.logger.Printf("job enqueued: %s", id)
	return s.jobs.GetByID(ctx, id)
}

// Cancel marks an active job as failed with a cancellation message. The
// scheduler observes the change on its next tick and discards any remote
// result still in flight.
func (s *Service) Cancel(ctx context.Context, id string) (*job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch j.Status {
	case job.StatusWaiting, job.StatusProcessing, job.StatusPending:
	default:
		return nil, fmt.Errorf("%w: cannot cancel job in %s", job.ErrInvalidTransition, j.Status)
	}

	patch := job.Patch{
		Status:  ptr(job.StatusFailed),
		Message: ptr(CancelledMessage),
	}
	if err := s.jobs.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	s.logger.Printf("job cancelled: %s", id)
	return s.jobs.GetByID(ctx, id)
}

// Retry puts a failed job back into the waiting queue. The remote handle is
// always discarded; generated audio is discarded too unless the caller
// supplied a fixed audio artifact at creation.
func (s *Service) Retry(ctx context.Context, id string) (*job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != job.StatusFailed {
		return nil, fmt.Errorf("%w: cannot retry job in %s", job.ErrInvalidTransition, j.Status)
	}

	patch := job.Patch{
		Status:       ptr(job.StatusWaiting),
		RemoteHandle: ptr(""),
		Progress:     ptr(0),
		Message:      ptr("queued for retry"),
	}
	if !j.AudioFixed {
		patch.AudioPath = ptr("")
	}
	if err := s.jobs.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	s.logger.Printf("job retried: %s", id)
	return s.jobs.GetByID(ctx, id)
}

// Remove deletes a job that is not owned by the scheduler anymore.
func (s *Service) Remove(ctx context.Context, id string) error {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if j.Status != job.StatusDraft && !j.Status.Terminal() {
		return fmt.Errorf("%w: cannot remove job in %s", job.ErrInvalidTransition, j.Status)
	}
	return s.jobs.Remove(ctx, id)
}

// GetStatus returns the job's reportable state, including its queue
// position while it waits. The position is recomputed from the store on
// every call, never cached.
func (s *Service) GetStatus(ctx context.Context, id string) (job.StatusReport, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return job.StatusReport{}, err
	}

	report := job.StatusReport{
		ID:         j.ID,
		Status:     j.Status,
		Progress:   j.Progress,
		Message:    j.Message,
		ResultPath: j.ResultPath,
		Duration:   j.Duration,
	}
	if j.Status == job.StatusWaiting {
		waiting, err := s.jobs.ListByStatus(ctx, job.StatusWaiting)
		if err != nil {
			return job.StatusReport{}, err
		}
		report.QueuePosition = queuePosition(waiting, j.ID)
	}
	return report, nil
}

// GetJob returns the full stored record.
func (s *Service) GetJob(ctx context.Context, id string) (*job.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListByStatus returns jobs in one status bucket, oldest first.
func (s *Service) ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown status: %s", status)
	}
	return s.jobs.ListByStatus(ctx, status)
}

// QueueSnapshot aggregates per-status counts and bucket listings.
func (s *Service) QueueSnapshot(ctx context.Context) (QueueSnapshot, error) {
	counts, err := s.jobs.CountByStatus(ctx)
	if err != nil {
		return QueueSnapshot{}, err
	}

	snapshot := QueueSnapshot{
		Counts:  counts,
		Buckets: make(map[job.Status][]job.Job),
	}
	for status := range counts {
		jobs, err := s.jobs.ListByStatus(ctx, status)
		if err != nil {
			return QueueSnapshot{}, err
		}
		snapshot.Buckets[status] = jobs
	}
	return snapshot, nil
}

// PurgeTerminal removes completed and failed jobs older than the retention
// window. Returns the number of rows removed.
func (s *Service) PurgeTerminal(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	removed, err := s.jobs.RemoveTerminalBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Printf("purged %d terminal jobs", removed)
	}
	return removed, nil
}
