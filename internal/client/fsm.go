package client

import "sync"

// AvatarState is the cat's animation state. Speaking is only entered once
// audio is actually audible; closing is the brief wind-down after playback.
type AvatarState int

const (
	StateIdle AvatarState = iota
	StateSpeaking
	StateClosing
)

func (s AvatarState) String() string {
	switch s {
	case StateSpeaking:
		return "speaking"
	case StateClosing:
		return "closing"
	default:
		return "idle"
	}
}

// PlaybackEvent is a named audio lifecycle event driving the avatar.
type PlaybackEvent int

const (
	EventPlaybackStarted PlaybackEvent = iota
	EventPlaybackEnded
	EventPlaybackError
)

// AvatarFSM replaces nested animation timers with explicit transitions:
//
//	any      --playback-started--> speaking
//	speaking --playback-ended----> closing
//	any      --playback-error----> idle
//	closing  --Settle()----------> idle
type AvatarFSM struct {
	mu       sync.Mutex
	state    AvatarState
	onChange func(AvatarState)
}

// NewAvatarFSM starts in idle. onChange, if non-nil, fires on every state
// change (not on self-transitions).
func NewAvatarFSM(onChange func(AvatarState)) *AvatarFSM {
	return &AvatarFSM{state: StateIdle, onChange: onChange}
}

func (m *AvatarFSM) State() AvatarState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *AvatarFSM) Handle(ev PlaybackEvent) AvatarState {
	m.mu.Lock()
	next := m.state
	switch ev {
	case EventPlaybackStarted:
		next = StateSpeaking
	case EventPlaybackEnded:
		if m.state == StateSpeaking {
			next = StateClosing
		}
	case EventPlaybackError:
		next = StateIdle
	}
	m.set(next)
	m.mu.Unlock()
	return next
}

// Settle finishes the closing wind-down. No-op in any other state.
func (m *AvatarFSM) Settle() AvatarState {
	m.mu.Lock()
	if m.state == StateClosing {
		m.set(StateIdle)
	}
	state := m.state
	m.mu.Unlock()
	return state
}

// Reset forces idle, releasing a stuck speaking state before a new turn.
func (m *AvatarFSM) Reset() {
	m.mu.Lock()
	m.set(StateIdle)
	m.mu.Unlock()
}

// set must be called with mu held.
func (m *AvatarFSM) set(next AvatarState) {
	if next == m.state {
		return
	}
	m.state = next
	if m.onChange != nil {
		m.onChange(next)
	}
}
