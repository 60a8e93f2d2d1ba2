package speechrecognition

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/codes"
)

type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
)

// Recognizer turns a Capability into an idle/listening state machine with a
// live caption and a single finalize per session. Errors never leave the
// recognizer as return values, they are kept in its error slot.
type Recognizer struct {
	capability Capability
	supported  bool

	mu           sync.Mutex
	state        State
	session      uint64
	accumulation Accumulation
	caption      string
	err          error
	callbacks    Callbacks
}

// NewRecognizer wraps capability. A nil capability makes the recognizer
// permanently unsupported.
func NewRecognizer(capability Capability, opts ...RecognizerOption) *Recognizer {
	options := RecognizerOptions{ProbeContext: context.Background()}
	for _, opt := range opts {
		opt(&options)
	}

	r := &Recognizer{
		capability: capability,
		supported:  capability != nil,
		state:      StateIdle,
		callbacks:  options.Callbacks,
	}
	if reporter, ok := capability.(supportReporter); ok && !reporter.Supported() {
		r.supported = false
	}

	if !r.supported {
		r.err = &CapabilityUnsupportedError{}
	} else if prober, ok := capability.(permissionProber); ok && prober.PermissionDenied(options.ProbeContext) {
		r.err = &PermissionError{Code: "not-allowed"}
	}

	return r
}

// SetCallbacks replaces the callbacks used for subsequent notifications.
func (r *Recognizer) SetCallbacks(callbacks Callbacks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = callbacks
}

func (r *Recognizer) Supported() bool {
	return r.supported
}

func (r *Recognizer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recognizer) Listening() bool {
	return r.State() == StateListening
}

// Err returns the content of the error slot.
func (r *Recognizer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recognizer) Caption() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.caption
}

// Start begins a listening session. It is a no-op while already listening.
// Failures end up in the error slot.
func (r *Recognizer) Start(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "start recognition")
	defer span.End()

	r.mu.Lock()
	callbacks := r.callbacks
	if !r.supported {
		r.err = &CapabilityUnsupportedError{}
		err := r.err
		r.mu.Unlock()
		span.SetStatus(codes.Error, "unsupported")
		notifyError(callbacks, err)
		return
	}
	if r.state == StateListening {
		r.mu.Unlock()
		return
	}

	hadErr := r.err != nil
	r.err = nil
	r.session++
	session := r.session
	r.state = StateListening
	r.accumulation = Accumulation{}
	r.caption = ""
	r.mu.Unlock()

	if hadErr {
		notifyError(callbacks, nil)
	}
	if callbacks.OnListeningChanged != nil {
		callbacks.OnListeningChanged(true)
	}

	err := r.capability.Start(ctx, CapabilityEvents{
		OnResult: func(event ResultEvent) { r.handleResult(session, event) },
		OnEnd:    func() { r.finish(session) },
		OnError:  func(err error) { r.handleError(session, err) },
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start capability")
		r.handleError(session, err)
	}
}

// Stop requests a graceful end of the current session. The recognizer goes
// idle when the capability reports the end of the session.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	listening := r.state == StateListening
	r.mu.Unlock()
	if !listening {
		return
	}

	if err := r.capability.Stop(); err != nil {
		logger.Warn("failed to stop recognition capability", "error", err)
	}
}

// Close aborts any active session without finalizing it.
func (r *Recognizer) Close() {
	r.mu.Lock()
	if r.state != StateListening {
		r.mu.Unlock()
		return
	}
	r.state = StateIdle
	r.session++
	r.accumulation = Accumulation{}
	r.caption = ""
	callbacks := r.callbacks
	r.mu.Unlock()

	if err := r.capability.Abort(); err != nil {
		logger.Warn("failed to abort recognition capability", "error", err)
	}
	if callbacks.OnListeningChanged != nil {
		callbacks.OnListeningChanged(false)
	}
}

func (r *Recognizer) handleResult(session uint64, event ResultEvent) {
	r.mu.Lock()
	if session != r.session || r.state != StateListening {
		r.mu.Unlock()
		return
	}
	r.accumulation = Accumulate(r.accumulation, event)
	r.caption = r.accumulation.Caption()
	caption := r.caption
	callbacks := r.callbacks
	r.mu.Unlock()

	if callbacks.OnCaption != nil {
		callbacks.OnCaption(caption)
	}
}

// handleError stores err and ends the session.
func (r *Recognizer) handleError(session uint64, err error) {
	r.mu.Lock()
	if session != r.session || r.state != StateListening {
		r.mu.Unlock()
		return
	}
	r.err = err
	callbacks := r.callbacks
	r.mu.Unlock()

	logger.Warn("speech recognition failed", "error", err)
	notifyError(callbacks, err)
	r.finish(session)
}

func (r *Recognizer) finish(session uint64) {
	r.mu.Lock()
	if session != r.session || r.state != StateListening {
		r.mu.Unlock()
		return
	}
	text := r.accumulation.FinalText()
	r.accumulation = Accumulation{}
	r.caption = ""
	r.state = StateIdle
	callbacks := r.callbacks
	r.mu.Unlock()

	if callbacks.OnFinalize != nil {
		callbacks.OnFinalize(text)
	}
	if callbacks.OnCaption != nil {
		callbacks.OnCaption("")
	}
	if callbacks.OnListeningChanged != nil {
		callbacks.OnListeningChanged(false)
	}
}

func notifyError(callbacks Callbacks, err error) {
	if callbacks.OnError != nil {
		callbacks.OnError(err)
	}
}
