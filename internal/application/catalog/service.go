package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"talkinghead/internal/domain/avatar"
)

// Service manages the face model and voice profile catalog.
type Service struct {
	models ModelStore
	voices VoiceStore
	files  ArtifactStore
	logger *log.Logger
}

// NewService creates the catalog use-case service with injected ports.
func NewService(models ModelStore, voices VoiceStore, files ArtifactStore, logger *log.Logger) *Service {
	return &Service{models: models, voices: voices, files: files, logger: logger}
}

// CreateModel stores an uploaded reference video and registers the model.
func (s *Service) CreateModel(ctx context.Context, name, fileName string, r io.Reader) (*avatar.Model, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: model name is required", avatar.ErrInvalidUpload)
	}
	cleaned, err := avatar.NormalizeModelFileName(fileName)
	if err != nil {
		return nil, err
	}

	videoPath, err := s.files.SaveModelVideo(cleaned, r)
	if err != nil {
		return nil, err
	}

	m := &avatar.Model{
		ID:        uuid.NewString(),
		Name:      name,
		VideoPath: videoPath,
	}
	if err := s.models.Insert(ctx, m); err != nil {
		_ = s.files.RemoveArtifact(videoPath)
		return nil, err
	}
	s.logger.Printf("model created: %s (%s)", m.ID, m.Name)
	return m, nil
}

// CreateVoice stores uploaded reference audio and registers the voice.
func (s *Service) CreateVoice(ctx context.Context, name, referenceText, fileName string, r io.Reader) (*avatar.Voice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: voice name is required", avatar.ErrInvalidUpload)
	}
	if strings.TrimSpace(referenceText) == "" {
		return nil, fmt.Errorf("%w: reference text is required", avatar.ErrInvalidUpload)
	}
	cleaned, err := avatar.NormalizeAudioFileName(fileName)
	if err != nil {
		return nil, err
	}

	audioPath, err := s.files.SaveVoiceAudio(cleaned, r)
	if err != nil {
		return nil, err
	}

	v := &avatar.Voice{
		ID:                 uuid.NewString(),
		Name:               name,
		ReferenceAudioPath: audioPath,
		ReferenceText:      strings.TrimSpace(referenceText),
	}
	if err := s.voices.Insert(ctx, v); err != nil {
		_ = s.files.RemoveArtifact(audioPath)
		return nil, err
	}
	s.logger.Printf("voice created: %s (%s)", v.ID, v.Name)
	return v, nil
}

// ListModels returns all registered face models.
func (s *Service) ListModels(ctx context.Context) ([]avatar.Model, error) {
	return s.models.List(ctx)
}

// ListVoices returns all registered voice profiles.
func (s *Service) ListVoices(ctx context.Context) ([]avatar.Voice, error) {
	return s.voices.List(ctx)
}

// GetModel resolves a face model by id.
func (s *Service) GetModel(ctx context.Context, id string) (*avatar.Model, error) {
	return s.models.GetByID(ctx, id)
}

// GetVoice resolves a voice profile by id.
func (s *Service) GetVoice(ctx context.Context, id string) (*avatar.Voice, error) {
	return s.voices.GetByID(ctx, id)
}

// DeleteModel removes the model row and its stored video.
func (s *Service) DeleteModel(ctx context.Context, id string) error {
	m, err := s.models.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.models.Remove(ctx, id); err != nil {
		return err
	}
	_ = s.files.RemoveArtifact(m.VideoPath)
	s.logger.Printf("model deleted: %s", id)
	return nil
}

// DeleteVoice removes the voice row and its stored reference audio.
func (s *Service) DeleteVoice(ctx context.Context, id string) error {
	v, err := s.voices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.voices.Remove(ctx, id); err != nil {
		return err
	}
	_ = s.files.RemoveArtifact(v.ReferenceAudioPath)
	s.logger.Printf("voice deleted: %s", id)
	return nil
}
