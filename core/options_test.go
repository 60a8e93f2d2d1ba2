package orchestration

import (
	"context"
	"testing"

	"github.com/koscakluka/ema-voice/core/conversations"
)

func TestWithSessionFlagsNilKeepsDefault(t *testing.T) {
	o := NewOrchestrator(WithSessionFlags(nil))
	defer o.Close()

	if o.flags == nil {
		t.Fatalf("expected default session flags to be kept")
	}
}

func TestWithSessionFlagsIsUsed(t *testing.T) {
	flags := conversations.NewMemoryFlags()
	o := NewOrchestrator(WithSessionFlags(flags))
	defer o.Close()

	if o.flags != flags {
		t.Fatalf("expected injected session flags to be used")
	}
}

func TestWithBaseContextCancelsRoundTrips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	o := NewOrchestrator(WithBaseContext(ctx))
	defer o.Close()

	cancel()
	select {
	case <-o.baseContext.Done():
	default:
		t.Fatalf("expected cancelling the base context to cancel round trips")
	}
}

func TestWithBaseContextNilIsNoop(t *testing.T) {
	o := NewOrchestrator(WithBaseContext(nil))
	defer o.Close()

	if o.baseContext == nil {
		t.Fatalf("expected a base context")
	}
}

func TestTurnsAreSerializedByDefault(t *testing.T) {
	serialized := NewOrchestrator()
	defer serialized.Close()
	if serialized.concurrentTurns {
		t.Fatalf("expected serialized turns by default")
	}

	concurrent := NewOrchestrator(WithConcurrentTurns())
	defer concurrent.Close()
	if !concurrent.concurrentTurns {
		t.Fatalf("expected concurrent turns to be enabled")
	}
}
