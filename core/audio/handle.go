package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrReleased = errors.New("audio handle already released")

// Handle refers to a playable audio resource owned by a [Library]. It is a
// plain value and stays valid as a reference after the resource is released.
type Handle struct {
	ID     string
	Format encodingFormat
	Size   int
}

// Player is the audio playback collaborator. Play starts playback and returns
// without waiting for it; onEnded is called exactly once when playback is
// complete or abandoned.
type Player interface {
	Play(ctx context.Context, audio []byte, info EncodingInfo, onEnded func()) error
}

type libraryEntry struct {
	data []byte
	info EncodingInfo
}

// Library holds the audio resources behind handed-out handles until they are
// released.
type Library struct {
	mu      sync.Mutex
	entries map[string]libraryEntry

	onRelease func(Handle)
}

func NewLibrary() *Library {
	return &Library{entries: map[string]libraryEntry{}}
}

// OnRelease registers a callback invoked after a handle is released.
func (l *Library) OnRelease(callback func(Handle)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onRelease = callback
}

// Acquire stores the payload and returns a handle referring to it.
func (l *Library) Acquire(data []byte, info EncodingInfo) Handle {
	handle := Handle{ID: uuid.NewString(), Format: info.Format, Size: len(data)}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[handle.ID] = libraryEntry{data: data, info: info}
	return handle
}

// Open returns the payload behind a handle.
func (l *Library) Open(handle Handle) ([]byte, EncodingInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[handle.ID]
	if !ok {
		return nil, EncodingInfo{}, ErrReleased
	}
	return entry.data, entry.info, nil
}

// Release frees the payload behind a handle. Releasing twice is a no-op and
// reports false.
func (l *Library) Release(handle Handle) bool {
	l.mu.Lock()
	_, ok := l.entries[handle.ID]
	delete(l.entries, handle.ID)
	onRelease := l.onRelease
	l.mu.Unlock()

	if ok && onRelease != nil {
		onRelease(handle)
	}
	return ok
}

// IsReleased reports whether the payload behind handle is gone.
func (l *Library) IsReleased(handle Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[handle.ID]
	return !ok
}

// Len returns the number of resources currently held.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Play starts a single playback of handle through player and releases the
// resource once the player reports the playback as ended. If playback cannot
// be started the resource is released immediately.
func (l *Library) Play(ctx context.Context, player Player, handle Handle) error {
	data, info, err := l.Open(handle)
	if err != nil {
		return err
	}
	if player == nil {
		l.Release(handle)
		return fmt.Errorf("no audio player configured")
	}

	var releaseOnce sync.Once
	release := func() { releaseOnce.Do(func() { l.Release(handle) }) }

	if err := player.Play(ctx, data, info, release); err != nil {
		release()
		return fmt.Errorf("failed to start playback: %w", err)
	}
	return nil
}
