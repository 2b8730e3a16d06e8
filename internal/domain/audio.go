package domain

import (
	"path/filepath"
	"strings"
)

// AudioFileInfo identifies one playable file found by the library scan.
type AudioFileInfo struct {
	Name string
	Path string
}

// NewAudioFileInfo names a file after its stem.
func NewAudioFileInfo(path string) (AudioFileInfo, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return AudioFileInfo{}, ErrInvalidPath
	}
	base := filepath.Base(path)
	return AudioFileInfo{
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		Path: path,
	}, nil
}
