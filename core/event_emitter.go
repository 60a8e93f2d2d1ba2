package orchestration

import (
	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/koscakluka/ema-voice/core/events"
)

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

type callbackOptions struct {
	onEvent            func(events.Event)
	onTurn             func(conversations.Turn)
	onCaption          func(string)
	onIndicators       func(Indicators)
	onListening        func(bool)
	onRecognitionError func(error)
}

func (opts callbackOptions) isZero() bool {
	return opts.onEvent == nil && opts.onTurn == nil && opts.onCaption == nil &&
		opts.onIndicators == nil && opts.onListening == nil && opts.onRecognitionError == nil
}

func newCallbackEventEmitter(opts callbackOptions) eventEmitter {
	if opts.isZero() {
		return noopEventEmitter
	}

	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.TurnCommitted:
			if opts.onTurn != nil {
				opts.onTurn(typedEvent.Turn)
			}
		case events.UserTranscriptInterimUpdated:
			if opts.onCaption != nil {
				opts.onCaption(typedEvent.Transcript)
			}
		case events.IndicatorsChanged:
			if opts.onIndicators != nil {
				opts.onIndicators(indicatorsFromEvent(typedEvent))
			}
		case events.UserListeningChanged:
			if opts.onListening != nil {
				opts.onListening(typedEvent.Listening)
			}
		case events.UserInputFailed:
			if opts.onRecognitionError != nil {
				opts.onRecognitionError(typedEvent.Err)
			}
		}

		if opts.onEvent != nil {
			opts.onEvent(event)
		}
	}
}
