package catalog

import (
	"context"
	"io"

	"talkinghead/internal/domain/avatar"
)

// ModelStore persists face models.
type ModelStore interface {
	Insert(ctx context.Context, m *avatar.Model) error
	GetByID(ctx context.Context, id string) (*avatar.Model, error)
	List(ctx context.Context) ([]avatar.Model, error)
	Remove(ctx context.Context, id string) error
}

// VoiceStore persists voice profiles.
type VoiceStore interface {
	Insert(ctx context.Context, v *avatar.Voice) error
	GetByID(ctx context.Context, id string) (*avatar.Voice, error)
	List(ctx context.Context) ([]avatar.Voice, error)
	Remove(ctx context.Context, id string) error
}

// ArtifactStore writes uploaded reference files under the configured roots.
type ArtifactStore interface {
	SaveModelVideo(fileName string, r io.Reader) (string, error)
	SaveVoiceAudio(fileName string, r io.Reader) (string, error)
	RemoveArtifact(path string) error
}
