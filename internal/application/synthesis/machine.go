package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log"

	"talkinghead/internal/domain/job"
)

// CancelledMessage is written when a user cancels an active job.
const CancelledMessage = "cancelled by user"

// Machine applies one lifecycle transition to one job at a time. Every
// gateway failure is converted into a failed status on the affected job;
// Machine methods only return errors for store-level problems.
type Machine struct {
	jobs   JobStore
	models ModelLookup
	voices VoiceLookup
	speech SpeechGateway
	render RenderGateway
	prober MediaProber
	logger *log.Logger
}

// NewMachine creates the transition engine with injected ports.
func NewMachine(jobs JobStore, models ModelLookup, voices VoiceLookup, speech SpeechGateway, render RenderGateway, prober MediaProber, logger *log.Logger) *Machine {
	return &Machine{
		jobs:   jobs,
		models: models,
		voices: voices,
		speech: speech,
		render: render,
		prober: prober,
		logger: logger,
	}
}

// Advance runs the transition matching the job's current status. Waiting
// jobs are promoted and pushed through the full processing pipeline within
// the same call; pending jobs are polled once. Terminal and draft jobs are
// left untouched.
func (m *Machine) Advance(ctx context.Context, j *job.Job) error {
	switch j.Status {
	case job.StatusWaiting:
		return m.promote(ctx, j)
	case job.StatusProcessing:
		return m.runProcessing(ctx, j)
	case job.StatusPending:
		return m.pollOnce(ctx, j)
	default:
		return nil
	}
}

func (m *Machine) promote(ctx context.Context, j *job.Job) error {
	applied, err := m.commit(ctx, j.ID, job.StatusWaiting, job.Patch{
		Status:  ptr(job.StatusProcessing),
		Message: ptr("preparing synthesis"),
	})
	if err != nil || !applied {
		return err
	}
	m.logger.Printf("job promoted: %s", j.ID)
	return m.runProcessing(ctx, j)
}

// runProcessing resolves references, generates audio when none is present
// and submits the job to the render service. The stage is resumable: a job
// that reached processing before a restart re-enters here and skips the
// audio step if an artifact was already recorded.
func (m *Machine) runProcessing(ctx context.Context, j *job.Job) error {
	model, err := m.models.GetModel(ctx, j.ModelID)
	if err != nil {
		return m.fail(ctx, j.ID, job.StatusProcessing, fmt.Sprintf("%s: %s", job.ErrReferenceNotFound, j.ModelID))
	}
	voice, err := m.voices.GetVoice(ctx, j.VoiceID)
	if err != nil {
		return m.fail(ctx, j.ID, job.StatusProcessing, fmt.Sprintf("%s: %s", job.ErrReferenceNotFound, j.VoiceID))
	}

	audioPath := j.AudioPath
	if audioPath == "" {
		audioPath, err = m.speech.Synthesize(ctx, voice, j.ScriptText)
		if err != nil {
			return m.fail(ctx, j.ID, job.StatusProcessing, fmt.Sprintf("speech synthesis failed: %v", err))
		}
		applied, err := m.commit(ctx, j.ID, job.StatusProcessing, job.Patch{
			AudioPath: &audioPath,
			Message:   ptr("audio generated"),
		})
		if err != nil || !applied {
			return err
		}
		m.logger.Printf("job audio generated: %s -> %s", j.ID, audioPath)
	}

	res, err := m.render.Submit(ctx, audioPath, model.VideoPath)
	if err != nil {
		return m.fail(ctx, j.ID, job.StatusProcessing, fmt.Sprintf("render submit failed: %v", err))
	}
	if !res.Accepted {
		return m.fail(ctx, j.ID, job.StatusProcessing, nonEmpty(res.Message, job.ErrRemoteTerminalFailure.Error()))
	}

	applied, err := m.commit(ctx, j.ID, job.StatusProcessing, job.Patch{
		Status:       ptr(job.StatusPending),
		RemoteHandle: &res.Handle,
		Message:      ptr(nonEmpty(res.Message, "submitted to render service")),
	})
	if err != nil || !applied {
		return err
	}
	m.logger.Printf("job submitted: %s handle=%s", j.ID, res.Handle)
	return nil
}

// pollOnce samples the remote status of an in-flight job and applies the
// resulting transition.
func (m *Machine) pollOnce(ctx context.Context, j *job.Job) error {
	res, err := m.render.Poll(ctx, j.RemoteHandle)
	if err != nil {
		return m.fail(ctx, j.ID, job.StatusPending, fmt.Sprintf("render poll failed: %v", err))
	}

	switch res.State {
	case job.RemoteSucceeded:
		duration, err := m.prober.Duration(ctx, res.ResultPath)
		if err != nil {
			return m.fail(ctx, j.ID, job.StatusPending, fmt.Sprintf("%s: %v", job.ErrMediaProbeFailure, err))
		}
		applied, err := m.commit(ctx, j.ID, job.StatusPending, job.Patch{
			Status:     ptr(job.StatusCompleted),
			Progress:   ptr(100),
			Message:    ptr("completed"),
			ResultPath: &res.ResultPath,
			Duration:   &duration,
		})
		if err != nil || !applied {
			return err
		}
		m.logger.Printf("job completed: %s result=%s duration=%.1fs", j.ID, res.ResultPath, duration)
		return nil

	case job.RemoteFailed:
		return m.fail(ctx, j.ID, job.StatusPending, nonEmpty(res.Message, job.ErrRemoteTerminalFailure.Error()))

	default:
		// Still running. Progress never moves backwards while in flight.
		progress := clampProgress(res.Progress)
		if progress < j.Progress {
			progress = j.Progress
		}
		_, err := m.commit(ctx, j.ID, job.StatusPending, job.Patch{
			Progress: &progress,
			Message:  ptr(nonEmpty(res.Message, "rendering")),
		})
		return err
	}
}

// fail moves the job to failed with the given message, unless the job left
// the expected status while a blocking call was in progress.
func (m *Machine) fail(ctx context.Context, id string, from job.Status, message string) error {
	applied, err := m.commit(ctx, id, from, job.Patch{
		Status:  ptr(job.StatusFailed),
		Message: &message,
	})
	if err != nil {
		return err
	}
	if applied {
		m.logger.Printf("job failed: %s: %s", id, message)
	}
	return nil
}

// commit re-reads the job and applies the patch only when the status still
// matches the one the transition started from. A cancel that landed during
// a blocking gateway call therefore discards the call's result instead of
// being overwritten.
func (m *Machine) commit(ctx context.Context, id string, from job.Status, patch job.Patch) (bool, error) {
	current, err := m.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if current.Status != from {
		m.logger.Printf("job transition discarded: %s moved to %s", id, current.Status)
		return false, nil
	}
	if err := m.jobs.Update(ctx, id, patch); err != nil {
		return false, err
	}
	return true, nil
}

func clampProgress(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func nonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func ptr[T any](v T) *T {
	return &v
}
