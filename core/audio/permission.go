package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var ErrPermissionDenied = errors.New("microphone access denied")

// IsPermissionError reports whether err means the audio device refused
// access, as opposed to being absent or broken.
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, fs.ErrPermission) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "permission denied") || strings.Contains(message, "access denied")
}

// DeniedSource stands in for a microphone that could not be opened because
// access was refused. Every capture attempt fails with ErrPermissionDenied.
type DeniedSource struct {
	Err error
}

func (DeniedSource) EncodingInfo() EncodingInfo {
	return GetDefaultEncodingInfo()
}

func (s DeniedSource) Stream(context.Context, func([]byte)) error {
	if s.Err == nil || errors.Is(s.Err, ErrPermissionDenied) {
		return ErrPermissionDenied
	}
	return fmt.Errorf("%w: %w", ErrPermissionDenied, s.Err)
}

func (DeniedSource) PermissionDenied(context.Context) bool {
	return true
}
