package speechrecognition

import (
	"errors"
	"fmt"
)

// CapabilityUnsupportedError means no recognition capability is available in
// this environment. Voice input stays disabled for the session.
type CapabilityUnsupportedError struct{}

func (e *CapabilityUnsupportedError) Error() string {
	return "speech recognition is not supported in this environment"
}

// PermissionError means access to the microphone was refused.
type PermissionError struct {
	Code string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("microphone permission denied (%s)", e.Code)
}

// RecognitionError is any other error reported by the capability.
type RecognitionError struct {
	Code string
}

func (e *RecognitionError) Error() string {
	return "speech recognition error: " + e.Code
}

// ErrorFromCode converts a capability reason code into a typed error.
func ErrorFromCode(code string) error {
	switch code {
	case "not-allowed", "service-not-allowed":
		return &PermissionError{Code: code}
	}
	return &RecognitionError{Code: code}
}

// UserMessage renders err the way it is shown next to the microphone control.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var permissionErr *PermissionError
	var unsupportedErr *CapabilityUnsupportedError
	switch {
	case errors.As(err, &permissionErr):
		return "Please allow microphone access"
	case errors.As(err, &unsupportedErr):
		return "Speech recognition is not supported on this device"
	}
	return err.Error()
}
