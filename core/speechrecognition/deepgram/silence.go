package deepgram

import (
	"context"
	"time"

	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/internal/utils"
)

const (
	silenceChunkDuration = 50 * time.Millisecond
	silenceAfter         = 50 * time.Millisecond
	keepAliveAfter       = time.Second
	keepAliveInterval    = 5 * time.Second
)

// generateSilence fills gaps in the captured audio so the service keeps
// detecting the end of speech, and falls back to keep alive messages once the
// gap gets long.
func (s *session) generateSilence(ctx context.Context, encoding audio.EncodingInfo) {
	type silenceGeneratorState string
	const (
		silenceGeneratorStateWaiting   silenceGeneratorState = "waiting"
		silenceGeneratorStateSilence   silenceGeneratorState = "silence"
		silenceGeneratorStateKeepAlive silenceGeneratorState = "keepAlive"
	)

	ticker := time.NewTicker(silenceChunkDuration)
	defer ticker.Stop()

	byteSize := max(encoding.Format.ByteSize(), 1)
	chunk := make([]byte, encoding.SampleRate*encoding.ChannelCount()*byteSize*int(silenceChunkDuration/time.Millisecond)/1000)
	for i := range chunk {
		chunk[i] = encoding.SilenceValue()
	}

	var state = silenceGeneratorStateWaiting
	var firstSilenceTime *time.Time
	var lastKeepAliveTime *time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sinceAudio := s.sinceLastAudio()
			switch state {
			case silenceGeneratorStateWaiting:
				if sinceAudio > silenceAfter {
					state = silenceGeneratorStateSilence
					firstSilenceTime = utils.Ptr(time.Now())
				}

			case silenceGeneratorStateSilence:
				if sinceAudio < silenceAfter {
					state = silenceGeneratorStateWaiting
					firstSilenceTime = nil
					continue
				}
				if time.Since(*firstSilenceTime) >= keepAliveAfter {
					state = silenceGeneratorStateKeepAlive
					lastKeepAliveTime = utils.Ptr(time.Now())
					firstSilenceTime = nil
					continue
				}

				if err := s.sendSilence(chunk); err != nil {
					logger.Debug("sending silence audio failed", "error", err)
				}

			case silenceGeneratorStateKeepAlive:
				if sinceAudio < silenceAfter {
					state = silenceGeneratorStateWaiting
					continue
				}

				if time.Since(*lastKeepAliveTime) >= keepAliveInterval {
					lastKeepAliveTime = utils.Ptr(time.Now())
					s.sendKeepAlive()
				}
			}
		}
	}
}

func (s *session) sinceLastAudio() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastMsgTs)
}
