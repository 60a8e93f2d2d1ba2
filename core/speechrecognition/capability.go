package speechrecognition

import "context"

// Capability is a continuous speech-to-text service. Start opens a single
// recognition session whose progress is reported through events until OnEnd
// is called.
type Capability interface {
	Start(ctx context.Context, events CapabilityEvents) error
	// Stop asks the current session to finish gracefully. OnEnd still follows.
	Stop() error
	// Abort tears down the current session immediately. No further events are
	// required after Abort returns.
	Abort() error
}

type CapabilityEvents struct {
	OnResult func(ResultEvent)
	OnEnd    func()
	OnError  func(err error)
}

// ResultEvent mirrors a single progress report from a recognition session.
// Results holds every result slot of the session so far; slots before
// ResultIndex did not change since the previous event.
type ResultEvent struct {
	ResultIndex int
	Results     []Result
}

type Result struct {
	Transcript string
	IsFinal    bool
}

// A Capability implementing supportReporter may declare itself unusable in the
// current environment.
type supportReporter interface {
	Supported() bool
}

// A Capability implementing permissionProber is asked once at construction
// whether microphone access was already refused.
type permissionProber interface {
	PermissionDenied(ctx context.Context) bool
}
