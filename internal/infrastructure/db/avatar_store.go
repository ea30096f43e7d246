package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"talkinghead/internal/domain/avatar"
)

// ModelStore is the gorm-backed face model repository.
type ModelStore struct {
	db *gorm.DB
}

// NewModelStore creates the model repository.
func NewModelStore(conn *gorm.DB) *ModelStore {
	return &ModelStore{db: conn}
}

// Insert stores a new model record.
func (s *ModelStore) Insert(ctx context.Context, m *avatar.Model) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// GetByID loads one model or reports avatar.ErrModelNotFound.
func (s *ModelStore) GetByID(ctx context.Context, id string) (*avatar.Model, error) {
	var m avatar.Model
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, avatar.ErrModelNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all models, newest first.
func (s *ModelStore) List(ctx context.Context) ([]avatar.Model, error) {
	models := make([]avatar.Model, 0)
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error
	return models, err
}

// Remove deletes one model record.
func (s *ModelStore) Remove(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&avatar.Model{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return avatar.ErrModelNotFound
	}
	return nil
}

// VoiceStore is the gorm-backed voice profile repository.
type VoiceStore struct {
	db *gorm.DB
}

// NewVoiceStore creates the voice repository.
func NewVoiceStore(conn *gorm.DB) *VoiceStore {
	return &VoiceStore{db: conn}
}

// Insert stores a new voice record.
func (s *VoiceStore) Insert(ctx context.Context, v *avatar.Voice) error {
	return s.db.WithContext(ctx).Create(v).Error
}

// GetByID loads one voice or reports avatar.ErrVoiceNotFound.
func (s *VoiceStore) GetByID(ctx context.Context, id string) (*avatar.Voice, error) {
	var v avatar.Voice
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, avatar.ErrVoiceNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns all voices, newest first.
func (s *VoiceStore) List(ctx context.Context) ([]avatar.Voice, error) {
	voices := make([]avatar.Voice, 0)
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&voices).Error
	return voices, err
}

// Remove deletes one voice record.
func (s *VoiceStore) Remove(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&avatar.Voice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return avatar.ErrVoiceNotFound
	}
	return nil
}
