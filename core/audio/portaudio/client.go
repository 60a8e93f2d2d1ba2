package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/ema-voice/core/audio"
)

type Client struct {
	bufferSize int
	stream     *portaudio.Stream
	in         []int16

	playMu         sync.Mutex
	cancelPlayback context.CancelFunc
	playbackDone   chan struct{}
}

// NewClient opens the default input device. The stream is read in chunks of
// bufferSize samples.
func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	in := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, audio.DefaultSampleRate, bufferSize, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
	}, nil
}

// Stream captures microphone audio until ctx is done.
func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	logger.Debug("starting microphone capture")
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}
	defer c.stream.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.stream.Read(); err != nil {
				logger.Warn("failed to read from PortAudio stream", "error", err)
				continue
			}

			audioBuffer := bytes.Buffer{}
			if err := binary.Write(&audioBuffer, binary.LittleEndian, c.in); err != nil {
				return fmt.Errorf("failed to encode captured audio: %w", err)
			}
			onAudio(audioBuffer.Bytes())
		}
	}
}

// Play writes the payload to a dedicated output stream in the background.
// A playback still running from a previous call is cut short first.
func (c *Client) Play(ctx context.Context, payload []byte, info audio.EncodingInfo, onEnded func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pcm, pcmInfo, err := audio.DecodePCM(payload, info)
	if err != nil {
		return err
	}

	c.playMu.Lock()
	defer c.playMu.Unlock()
	c.stopPlaybackLocked()

	channels := pcmInfo.ChannelCount()
	out := make([]int16, c.bufferSize*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(pcmInfo.SampleRate), c.bufferSize, out)
	if err != nil {
		return fmt.Errorf("failed to open PortAudio output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start PortAudio output stream: %w", err)
	}

	playCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancelPlayback = cancel
	c.playbackDone = done

	go func() {
		defer close(done)
		defer func() {
			if onEnded != nil {
				onEnded()
			}
		}()
		defer stream.Close()
		defer stream.Stop()

		chunkSize := len(out) * 2
		for offset := 0; offset < len(pcm); offset += chunkSize {
			if playCtx.Err() != nil {
				return
			}

			chunk := pcm[offset:min(offset+chunkSize, len(pcm))]
			clear(out)
			if err := binary.Read(bytes.NewReader(chunk), binary.LittleEndian, out[:len(chunk)/2]); err != nil {
				logger.Warn("failed to decode playback chunk", "error", err)
				return
			}
			if err := stream.Write(); err != nil {
				logger.Warn("failed to write to PortAudio stream", "error", err)
				return
			}
		}
	}()

	return nil
}

func (c *Client) stopPlaybackLocked() {
	if c.cancelPlayback == nil {
		return
	}
	c.cancelPlayback()
	<-c.playbackDone
	c.cancelPlayback = nil
	c.playbackDone = nil
}

func (c *Client) Close() {
	c.playMu.Lock()
	c.stopPlaybackLocked()
	c.playMu.Unlock()

	c.stream.Close()
	portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
		Format:     audio.EncodingLinear16,
	}
}
