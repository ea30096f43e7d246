package avatar

import (
	"fmt"
	"path"
	"strings"
)

var allowedVideoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".mkv": true,
}

var allowedAudioExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedVideoExt reports whether extension is accepted for model videos.
func IsSupportedVideoExt(ext string) bool {
	return allowedVideoExts[strings.ToLower(strings.TrimSpace(ext))]
}

// IsSupportedAudioExt reports whether extension is accepted for voice audio.
func IsSupportedAudioExt(ext string) bool {
	return allowedAudioExts[strings.ToLower(strings.TrimSpace(ext))]
}

// NormalizeModelFileName validates an uploaded model video file name.
func NormalizeModelFileName(raw string) (string, error) {
	cleaned, err := normalizeFileName(raw)
	if err != nil {
		return "", err
	}
	if !IsSupportedVideoExt(path.Ext(cleaned)) {
		return "", fmt.Errorf("%w: unsupported video type", ErrInvalidUpload)
	}
	return cleaned, nil
}

// NormalizeAudioFileName validates an uploaded reference audio file name.
func NormalizeAudioFileName(raw string) (string, error) {
	cleaned, err := normalizeFileName(raw)
	if err != nil {
		return "", err
	}
	if !IsSupportedAudioExt(path.Ext(cleaned)) {
		return "", fmt.Errorf("%w: unsupported audio type", ErrInvalidUpload)
	}
	return cleaned, nil
}

func normalizeFileName(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%w: missing file name", ErrInvalidUpload)
	}

	value = strings.ReplaceAll(value, "\\", "/")
	cleaned := path.Clean("/" + value)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("%w: missing file name", ErrInvalidUpload)
	}

	// Uploads are stored flat; strip any directory part the client sent.
	return path.Base(cleaned), nil
}
