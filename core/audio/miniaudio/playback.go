package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-voice/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig
	encoding     audio.EncodingInfo

	leftoverAudio []byte
	marks         []playbackMark

	mu      sync.Mutex
	audioMu sync.Mutex
}

// Configure makes sure the playback device is running with the given sample
// rate and channel count, reinitializing it when they change.
func (c *playbackClient) Configure(encoding audio.EncodingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil && c.encoding.SampleRate == encoding.SampleRate &&
		c.encoding.ChannelCount() == encoding.ChannelCount() {
		return nil
	}

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
		c.ClearBuffer()
	}
	if c.audioContext == nil {
		return fmt.Errorf("audio context not initialized")
	}

	channels := encoding.ChannelCount()
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels
	sampleRate := uint32(encoding.SampleRate)

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	device, err := malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	)
	if err != nil {
		return err
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	c.device = device
	c.encoding = encoding
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = append(c.leftoverAudio, audio...)
	return nil
}

func (c *playbackClient) ready() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}
	return nil
}

// ClearBuffer drops queued audio. Marks that were still pending are reported
// as reached so their owners are not left waiting.
func (c *playbackClient) ClearBuffer() {
	c.audioMu.Lock()
	c.leftoverAudio = nil
	dropped := c.marks
	c.marks = nil
	c.audioMu.Unlock()

	callMarks(dropped)
}

func (c *playbackClient) Mark(mark string, callback func(string)) error {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     mark,
		position: len(c.leftoverAudio),
		callback: callback,
	})
	return nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil
	}

	c.device.Uninit()
	c.device = nil
	c.ClearBuffer()

	return nil
}

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (c *playbackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		passed := c.processMarks(need)
		n := copy(pOutput[:min(need, len(pOutput))], c.leftoverAudio)
		c.leftoverAudio = c.leftoverAudio[n:]
		c.audioMu.Unlock()

		for i := n; i < need && i < len(pOutput); i++ {
			pOutput[i] = 0
		}
		callMarks(passed)
	}
}

// processMarks must be called with audioMu held.
func (c *playbackClient) processMarks(until int) []playbackMark {
	passedMarks := 0
	for i, mark := range c.marks {
		if mark.position >= until {
			c.marks[i].position -= until
		} else {
			passedMarks++
		}
	}
	if passedMarks == 0 {
		return nil
	}

	passed := c.marks[:passedMarks:passedMarks]
	c.marks = c.marks[passedMarks:]
	return passed
}

func callMarks(marks []playbackMark) {
	if len(marks) == 0 {
		return
	}
	// callbacks must never run on the audio thread
	go func() {
		for _, mark := range marks {
			if mark.callback != nil {
				mark.callback(mark.name)
			}
		}
	}()
}
