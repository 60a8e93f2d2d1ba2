package speechrecognition

import "context"

// Callbacks receive the recognizer's output. Each callback is invoked outside
// of the recognizer's lock and may call back into it.
type Callbacks struct {
	// OnCaption receives the live caption. An empty string clears it.
	OnCaption func(caption string)
	// OnFinalize receives the trimmed final text, once per session. The text
	// may be empty.
	OnFinalize func(text string)
	// OnListeningChanged receives the new listening state.
	OnListeningChanged func(listening bool)
	// OnError receives the new content of the error slot, nil when cleared.
	OnError func(err error)
}

type RecognizerOptions struct {
	Callbacks    Callbacks
	ProbeContext context.Context
}

type RecognizerOption func(*RecognizerOptions)

func WithCallbacks(callbacks Callbacks) RecognizerOption {
	return func(o *RecognizerOptions) {
		o.Callbacks = callbacks
	}
}

// WithProbeContext bounds the permission probe done at construction.
func WithProbeContext(ctx context.Context) RecognizerOption {
	return func(o *RecognizerOptions) {
		o.ProbeContext = ctx
	}
}
