package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// DecodePCM converts an audio payload into interleaved linear16 samples ready
// to be written to an output device.
func DecodePCM(data []byte, info EncodingInfo) ([]byte, EncodingInfo, error) {
	switch info.Format {
	case EncodingLinear16:
		if info.SampleRate == 0 {
			return nil, EncodingInfo{}, fmt.Errorf("linear16 payload without sample rate")
		}
		return data, EncodingInfo{SampleRate: info.SampleRate, Channels: info.ChannelCount(), Format: EncodingLinear16}, nil

	case EncodingMP3:
		decoder, err := mp3.NewDecoder(bytes.NewReader(data))
		if err != nil {
			return nil, EncodingInfo{}, fmt.Errorf("failed to open mp3 stream: %w", err)
		}
		pcm, err := io.ReadAll(decoder)
		if err != nil {
			return nil, EncodingInfo{}, fmt.Errorf("failed to decode mp3 stream: %w", err)
		}
		if len(pcm) == 0 {
			return nil, EncodingInfo{}, fmt.Errorf("mp3 stream contains no audio")
		}
		// go-mp3 always produces 16 bit little endian stereo.
		return pcm, EncodingInfo{SampleRate: decoder.SampleRate(), Channels: 2, Format: EncodingLinear16}, nil

	default:
		return nil, EncodingInfo{}, fmt.Errorf("unsupported playback encoding %q", info.Format.Name())
	}
}
