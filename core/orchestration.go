package orchestration

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/koscakluka/ema-voice/core/events"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrEmptyPrompt = errors.New("prompt is empty")
	ErrClosed      = errors.New("orchestrator is closed")
)

// DegradedReplyPrefix starts the reply appended when the completion fails.
const DegradedReplyPrefix = "Sorry, something went wrong! "

// Orchestrator turns user utterances into assistant turns: it appends the
// user turn, asks the completion client for a reply, has the reply
// synthesized and appends the assistant turn. It owns the transcript.
type Orchestrator struct {
	completion CompletionClient
	synthesis  SynthesisClient
	recognizer Recognizer
	flags      conversations.SessionFlags
	library    *audio.Library

	transcript *conversations.Transcript
	indicators indicatorTracker

	concurrentTurns bool
	// submitMu orders transcript appends of user turns with the round trip
	// queue.
	submitMu sync.Mutex
	// lastRoundTrip is closed when the most recently queued round trip ends.
	lastRoundTrip chan struct{}

	callbacks   callbackOptions
	emit        eventEmitter
	baseContext context.Context
	cancelBase  context.CancelFunc

	closeOnce sync.Once
	closedMu  sync.RWMutex
	closed    bool
	inFlight  sync.WaitGroup

	committedTurns    metric.Int64Counter
	degradedTurns     metric.Int64Counter
	synthesisFailures metric.Int64Counter
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		flags:       conversations.NewMemoryFlags(),
		transcript:  conversations.NewTranscript(),
		baseContext: context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	o.baseContext, o.cancelBase = context.WithCancel(o.baseContext)
	o.emit = newCallbackEventEmitter(o.callbacks)
	o.initMetrics()

	if o.library != nil {
		o.library.OnRelease(func(handle audio.Handle) {
			o.emit(events.NewAssistantPlaybackEnded(handle))
		})
	}
	if o.recognizer != nil {
		o.recognizer.SetCallbacks(o.recognitionCallbacks())
	}

	return o
}

func (o *Orchestrator) initMetrics() {
	var err error
	if o.committedTurns, err = meter.Int64Counter("orchestrator.turns.committed"); err != nil {
		logger.Warn("failed to create committed turns counter", "error", err)
	}
	if o.degradedTurns, err = meter.Int64Counter("orchestrator.turns.degraded"); err != nil {
		logger.Warn("failed to create degraded turns counter", "error", err)
	}
	if o.synthesisFailures, err = meter.Int64Counter("orchestrator.synthesis.failures"); err != nil {
		logger.Warn("failed to create synthesis failures counter", "error", err)
	}
}

func addCount(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

// Close aborts voice input and waits for in-flight round trips, whose remote
// calls are cancelled.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.closedMu.Lock()
		o.closed = true
		o.closedMu.Unlock()

		if o.recognizer != nil {
			o.recognizer.Close()
		}
		o.cancelBase()
		o.inFlight.Wait()
	})
}

func (o *Orchestrator) isClosed() bool {
	o.closedMu.RLock()
	defer o.closedMu.RUnlock()
	return o.closed
}

// Submit commits text as a user turn and waits until the assistant turn
// answering it was appended. Failures of the remote services never surface
// here, they end up in the transcript.
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	done, err := o.SubmitAsync(ctx, text)
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitAsync commits text as a user turn before returning and runs its round
// trip in the background. The returned channel is closed once the round trip
// ended.
func (o *Orchestrator) SubmitAsync(ctx context.Context, text string) (<-chan struct{}, error) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	o.closedMu.RLock()
	if o.closed {
		o.closedMu.RUnlock()
		return nil, ErrClosed
	}
	o.inFlight.Add(1)
	o.closedMu.RUnlock()

	turn := conversations.NewUserTurn(prompt)
	done := make(chan struct{})

	o.submitMu.Lock()
	epoch := o.transcript.Append(turn)
	previous := o.lastRoundTrip
	o.lastRoundTrip = done
	// Concurrent round trips see the transcript as it was when their turn was
	// committed, so a later reply never leaks into an earlier prompt.
	var conversation string
	if o.concurrentTurns {
		conversation = o.transcript.ContextFor(turn)
	}
	before, after := o.indicators.move(phaseNone, phaseCompletion)
	o.submitMu.Unlock()

	addCount(ctx, o.committedTurns)
	o.emit(events.NewTurnCommitted(turn))
	if before != after {
		o.emit(events.NewIndicatorsChanged(after.Thinking, after.Speaking))
	}

	go func() {
		defer o.inFlight.Done()
		defer close(done)

		if previous != nil && !o.concurrentTurns {
			<-previous
		}

		run := panicSafeNamedWorker("round trip", func(runCtx context.Context) error {
			o.roundTrip(runCtx, turn, epoch, conversation)
			return nil
		})
		if err := run(o.roundTripContext(ctx)); err != nil {
			logger.Error("round trip ended unexpectedly", "turn", turn.ID, "error", err)
		}
	}()

	return done, nil
}

// ClearTranscript drops every turn. Round trips started before the reset do
// not append their reply.
func (o *Orchestrator) ClearTranscript() {
	o.submitMu.Lock()
	o.transcript.Clear()
	o.submitMu.Unlock()

	o.emit(events.NewTranscriptCleared())
}

// Transcript returns a deep copy of the committed turns.
func (o *Orchestrator) Transcript() []conversations.Turn {
	turns := o.transcript.Turns()
	snapshot := []conversations.Turn{}
	if err := copier.CopyWithOption(&snapshot, &turns, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to copy transcript", "error", err)
		return turns
	}
	return snapshot
}

func (o *Orchestrator) Indicators() Indicators {
	return o.indicators.current()
}

func (o *Orchestrator) State() State {
	return o.indicators.current().State
}
