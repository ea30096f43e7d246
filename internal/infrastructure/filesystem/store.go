package filesystem

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store manages the artifact directories: uploaded model videos, uploaded
// voice reference audio and render results served back to clients.
type Store struct {
	ModelsDir  string
	VoicesDir  string
	ResultsDir string
}

// NewStore creates filesystem adapter with configured roots.
func NewStore(modelsDir, voicesDir, resultsDir string) *Store {
	return &Store{ModelsDir: modelsDir, VoicesDir: voicesDir, ResultsDir: resultsDir}
}

// EnsureDirs creates filesystem roots used by the service.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.ModelsDir, s.VoicesDir, s.ResultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// SaveModelVideo stores an uploaded face model video and returns its path.
func (s *Store) SaveModelVideo(fileName string, r io.Reader) (string, error) {
	return s.save(s.ModelsDir, fileName, r)
}

// SaveVoiceAudio stores uploaded voice reference audio and returns its path.
func (s *Store) SaveVoiceAudio(fileName string, r io.Reader) (string, error) {
	return s.save(s.VoicesDir, fileName, r)
}

// save writes the upload under a unique name so repeated uploads of the
// same file never clobber each other.
func (s *Store) save(root, fileName string, r io.Reader) (string, error) {
	name := uuid.NewString() + "_" + filepath.Base(fileName)
	full := filepath.Join(root, name)
	if !isWithinDir(root, full) {
		return "", errors.New("invalid file path")
	}

	out, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return full, nil
}

// RemoveArtifact deletes a stored file if it lives under one of the roots.
func (s *Store) RemoveArtifact(path string) error {
	if path == "" {
		return nil
	}
	for _, root := range []string{s.ModelsDir, s.VoicesDir, s.ResultsDir} {
		if isWithinDir(root, path) {
			return os.Remove(path)
		}
	}
	return errors.New("invalid file path")
}

// ResolveResultPath validates a result file reference for serving.
func (s *Store) ResolveResultPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("invalid file path")
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.ResultsDir, filepath.FromSlash(path))
	}
	if !isWithinDir(s.ResultsDir, full) {
		return "", errors.New("invalid file path")
	}
	info, err := os.Stat(full)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("invalid file path")
	}
	return full, nil
}

func isWithinDir(basePath, targetPath string) bool {
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return false
	}
	targetAbs, err := filepath.Abs(targetPath)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return false
	}
	sep := string(os.PathSeparator)
	if rel == ".." || strings.HasPrefix(rel, ".."+sep) {
		return false
	}
	return true
}
