package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"talkinghead/internal/domain/job"
)

// JobStore is the gorm-backed job repository. All multi-row reads are
// ordered by creation time ascending (id breaks timestamp ties) so queue
// order is stable.
type JobStore struct {
	db *gorm.DB
}

// NewJobStore creates the job repository.
func NewJobStore(conn *gorm.DB) *JobStore {
	return &JobStore{db: conn}
}

// Insert stores a new job record.
func (s *JobStore) Insert(ctx context.Context, j *job.Job) error {
	return s.db.WithContext(ctx).Create(j).Error
}

// GetByID loads one job or reports job.ErrNotFound.
func (s *JobStore) GetByID(ctx context.Context, id string) (*job.Job, error) {
	var j job.Job
	err := s.db.WithContext(ctx).First(&j, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, job.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// ListByStatus returns every job in the given status, oldest first.
func (s *JobStore) ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error) {
	jobs := make([]job.Job, 0)
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&jobs).Error
	return jobs, err
}

// FindFirstByStatus returns the earliest-created job in the given status,
// or (nil, nil) when none exists.
func (s *JobStore) FindFirstByStatus(ctx context.Context, status job.Status) (*job.Job, error) {
	var j job.Job
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

// Update merges the non-nil patch fields into the stored record as a
// single UPDATE statement.
func (s *JobStore) Update(ctx context.Context, id string, patch job.Patch) error {
	fields := patchFields(patch)
	if len(fields) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).
		Model(&job.Job{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes one job record.
func (s *JobStore) Remove(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&job.Job{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return job.ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of jobs per status.
func (s *JobStore) CountByStatus(ctx context.Context) (map[job.Status]int64, error) {
	var rows []struct {
		Status job.Status
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&job.Job{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[job.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// RemoveTerminalBefore deletes completed and failed jobs not touched since
// the cutoff.
func (s *JobStore) RemoveTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []job.Status{job.StatusCompleted, job.StatusFailed}, cutoff).
		Delete(&job.Job{})
	return res.RowsAffected, res.Error
}

func patchFields(patch job.Patch) map[string]interface{} {
	fields := make(map[string]interface{})
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}
	if patch.AudioPath != nil {
		fields["audio_path"] = *patch.AudioPath
	}
	if patch.RemoteHandle != nil {
		fields["remote_handle"] = *patch.RemoteHandle
	}
	if patch.Progress != nil {
		fields["progress"] = *patch.Progress
	}
	if patch.Message != nil {
		fields["message"] = *patch.Message
	}
	if patch.ResultPath != nil {
		fields["result_path"] = *patch.ResultPath
	}
	if patch.Duration != nil {
		fields["duration"] = *patch.Duration
	}
	return fields
}
