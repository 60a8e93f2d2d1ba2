package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-voice/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient

	closeOnce sync.Once
}

// NewClient opens the default capture device. A returned error usually means
// that no microphone is available or that access to it was refused.
func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) { logger.Debug("malgo", "message", message) },
	)
	if err != nil {
		return nil, fmt.Errorf("malgo InitContext failed: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
	}
	client.playbackClient.audioContext = audioCtx

	if err := client.captureClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

// Stream captures microphone audio until ctx is done.
func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.captureClient.Start(onAudio); err != nil {
		return err
	}

	<-ctx.Done()
	return c.captureClient.Stop()
}

// Play decodes the payload and queues it on the playback device. Anything
// still queued from a previous call is dropped and its onEnded fires.
func (c *Client) Play(ctx context.Context, payload []byte, info audio.EncodingInfo, onEnded func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pcm, pcmInfo, err := audio.DecodePCM(payload, info)
	if err != nil {
		return err
	}

	if err := c.playbackClient.Configure(pcmInfo); err != nil {
		return fmt.Errorf("failed to configure playback device: %w", err)
	}

	c.playbackClient.ClearBuffer()
	if err := c.playbackClient.SendAudio(pcm); err != nil {
		return err
	}
	return c.playbackClient.Mark("playback-ended", func(string) {
		if onEnded != nil {
			onEnded()
		}
	})
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		_ = c.captureClient.Uninit()
		_ = c.playbackClient.Uninit()
		if c.audioContext != nil {
			_ = c.audioContext.Uninit()
			c.audioContext.Free()
		}
	})
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: captureSampleRate,
		Channels:   1,
		Format:     audio.EncodingLinear16,
	}
}
