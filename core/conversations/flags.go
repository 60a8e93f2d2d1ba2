package conversations

import "sync"

// SessionFlags remembers one-time hints for the lifetime of a session.
type SessionFlags interface {
	Seen(flag string) bool
	MarkSeen(flag string)
	Forget(flag string)
}

const VoiceGuideFlag = "voice-guide-seen"

type MemoryFlags struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{seen: map[string]bool{}}
}

func (f *MemoryFlags) Seen(flag string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[flag]
}

func (f *MemoryFlags) MarkSeen(flag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[flag] = true
}

func (f *MemoryFlags) Forget(flag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, flag)
}
