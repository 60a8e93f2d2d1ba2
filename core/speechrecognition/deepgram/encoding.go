package deepgram

import (
	"fmt"

	"github.com/koscakluka/ema-voice/core/audio"
)

type streamEncoding struct {
	sampleRate int
	channels   int
	name       string
}

// convertEncoding maps the capture encoding onto the raw encodings accepted
// by live transcription.
func convertEncoding(encoding audio.EncodingInfo) (streamEncoding, error) {
	converted := streamEncoding{channels: encoding.ChannelCount()}
	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 44100, 48000:
		converted.sampleRate = encoding.SampleRate
	default:
		return streamEncoding{}, fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	switch encoding.Format {
	case audio.EncodingLinear16:
		converted.name = "linear16"
	case audio.EncodingALaw, audio.EncodingMulaw:
		if converted.sampleRate != 8000 {
			return streamEncoding{}, fmt.Errorf("unsupported sample rate for %s encoding", encoding.Format.Name())
		}
		converted.name = encoding.Format.Name()
	default:
		return streamEncoding{}, fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}

	return converted, nil
}
