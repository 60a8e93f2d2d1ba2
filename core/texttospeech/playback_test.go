package texttospeech

import (
	"context"
	"errors"
	"testing"

	"github.com/koscakluka/ema-voice/core/audio"
)

type failingPlayer struct{ err error }

func (p failingPlayer) Play(context.Context, []byte, audio.EncodingInfo, func()) error {
	return p.err
}

type endedPlayer struct{ onEnded func() }

func (p *endedPlayer) Play(_ context.Context, _ []byte, _ audio.EncodingInfo, onEnded func()) error {
	p.onEnded = onEnded
	return nil
}

var linear16 = audio.EncodingInfo{SampleRate: 16000, Channels: 1, Format: audio.EncodingLinear16}

func TestDeliverWithoutPlayerFails(t *testing.T) {
	library := audio.NewLibrary()
	options := NewSynthesisOptions(WithLibrary(library))

	if _, err := options.Deliver(context.Background(), []byte{0, 0}, linear16); err == nil {
		t.Fatalf("expected delivery without a player to fail")
	}
	if got := library.Len(); got != 0 {
		t.Fatalf("expected audio to be released, got %d held", got)
	}
}

func TestDeliverFailsWhenPlaybackCannotStart(t *testing.T) {
	playErr := errors.New("device busy")
	library := audio.NewLibrary()
	options := NewSynthesisOptions(WithLibrary(library), WithPlayer(failingPlayer{err: playErr}))

	_, err := options.Deliver(context.Background(), []byte{0, 0}, linear16)
	if !errors.Is(err, playErr) {
		t.Fatalf("expected playback error, got %v", err)
	}
	if got := library.Len(); got != 0 {
		t.Fatalf("expected audio to be released, got %d held", got)
	}
}

func TestDeliverHoldsAudioUntilPlaybackEnds(t *testing.T) {
	library := audio.NewLibrary()
	player := &endedPlayer{}
	options := NewSynthesisOptions(WithLibrary(library), WithPlayer(player))

	handle, err := options.Deliver(context.Background(), []byte{0, 0}, linear16)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if library.IsReleased(handle) {
		t.Fatalf("expected audio to be held while playing")
	}

	player.onEnded()
	if !library.IsReleased(handle) {
		t.Fatalf("expected audio to be released after playback ended")
	}
}
