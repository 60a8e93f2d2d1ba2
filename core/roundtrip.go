package orchestration

import (
	"context"
	"errors"

	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/koscakluka/ema-voice/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	errNoCompletionClient = errors.New("no completion client configured")
	errNoSynthesisClient  = errors.New("no synthesis client configured")
)

// roundTripContext detaches the round trip from the caller's cancellation
// while keeping its trace. Closing the orchestrator cancels it.
func (o *Orchestrator) roundTripContext(ctx context.Context) context.Context {
	if ctx == nil {
		return o.baseContext
	}
	return trace.ContextWithSpan(o.baseContext, trace.SpanFromContext(ctx))
}

// roundTrip answers the committed user turn: completion, then synthesis, then
// the assistant turn. Remote failures end up in the transcript. The turn is
// already counted as awaiting completion when roundTrip starts. An empty
// conversation is rendered from the transcript once the round trip begins.
func (o *Orchestrator) roundTrip(ctx context.Context, turn conversations.Turn, epoch uint64, conversation string) {
	ctx, span := tracer.Start(ctx, "round trip", trace.WithAttributes(attribute.String("turn.id", turn.ID)))
	defer span.End()

	current := phaseCompletion
	enter := func(next phase) {
		o.setPhase(current, next)
		current = next
	}
	defer func() { enter(phaseNone) }()

	if o.transcript.Epoch() != epoch {
		span.AddEvent("transcript cleared before round trip started")
		return
	}

	o.emit(events.NewTurnStarted(turn.ID))

	if conversation == "" {
		conversation = o.transcript.ContextFor(turn)
	}
	reply, err := o.complete(ctx, conversation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		logger.Warn("completion failed", "turn", turn.ID, "error", err)
		addCount(ctx, o.degradedTurns)

		o.appendAssistantTurn(epoch, conversations.NewAssistantTurn(DegradedReplyPrefix+err.Error(), nil))
		o.emit(events.NewTurnFailed(turn.ID, err))
		return
	}
	o.emit(events.NewAssistantResponseFinal(turn.ID, reply))

	enter(phaseSynthesis)
	var audioRef *audio.Handle
	if handle, err := o.synthesize(ctx, reply); err != nil {
		span.RecordError(err)
		logger.Warn("speech synthesis failed, replying with text only", "turn", turn.ID, "error", err)
		addCount(ctx, o.synthesisFailures)
		o.emit(events.NewAssistantSpeechFailed(turn.ID, err))
	} else {
		audioRef = &handle
		o.emit(events.NewAssistantSpeechFinal(turn.ID, handle))
	}

	o.appendAssistantTurn(epoch, conversations.NewAssistantTurn(reply, audioRef))
	o.emit(events.NewTurnCompleted(turn.ID))
}

func (o *Orchestrator) complete(ctx context.Context, conversation string) (string, error) {
	if o.completion == nil {
		return "", errNoCompletionClient
	}
	return o.completion.Complete(ctx, conversation)
}

func (o *Orchestrator) synthesize(ctx context.Context, text string) (audio.Handle, error) {
	if o.synthesis == nil {
		return audio.Handle{}, errNoSynthesisClient
	}
	return o.synthesis.Synthesize(ctx, text)
}

func (o *Orchestrator) appendAssistantTurn(epoch uint64, turn conversations.Turn) {
	if !o.transcript.AppendIn(epoch, turn) {
		logger.Info("transcript cleared during round trip, dropping reply", "turn", turn.ID)
		return
	}
	o.emit(events.NewTurnCommitted(turn))
}

func (o *Orchestrator) setPhase(from, to phase) {
	if from == to {
		return
	}
	before, after := o.indicators.move(from, to)
	if before != after {
		o.emit(events.NewIndicatorsChanged(after.Thinking, after.Speaking))
	}
}
