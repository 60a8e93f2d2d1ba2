package app

// Key binding constants used in handleKey.
const (
	KeySubmit     = "enter"
	KeyToggleMic  = "ctrl+t"
	KeyClear      = "ctrl+x"
	KeyVoiceGuide = "ctrl+g"
	KeyQuit       = "ctrl+c"
	KeyEscape     = "esc"
)
