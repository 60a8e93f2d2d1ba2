package texttospeech

import (
	"context"
	"fmt"

	"github.com/koscakluka/ema-voice/core/audio"
)

// Deliver stores the synthesized payload in the library and starts its
// playback once. The library releases the payload when playback ends. A
// playback that cannot start releases the payload and fails the delivery, so
// the reply stays text only.
func (o SynthesisOptions) Deliver(ctx context.Context, payload []byte, info audio.EncodingInfo) (audio.Handle, error) {
	handle := o.Library.Acquire(payload, info)
	if err := o.Library.Play(ctx, o.Player, handle); err != nil {
		logger.Warn("failed to start playback of synthesized reply", "handle", handle.ID, "error", err)
		return audio.Handle{}, fmt.Errorf("failed to deliver synthesized reply: %w", err)
	}
	return handle, nil
}
