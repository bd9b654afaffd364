// Package history holds the bounded recent-turn buffer a client sends with
// every request, and the durable storage it is rebuilt from between sessions.
package history

import "fatcat-backend/internal/models"

// Window is an ordered log of turns capped at a fixed size. Appending beyond
// the cap drops the oldest entries first.
type Window struct {
	cap   int
	turns []models.Turn
}

func NewWindow(cap int) *Window {
	if cap < 1 {
		cap = 1
	}
	return &Window{cap: cap}
}

// Seed replaces the contents with stored turns, keeping only the newest cap
// entries.
func (w *Window) Seed(turns []models.Turn) {
	if len(turns) > w.cap {
		turns = turns[len(turns)-w.cap:]
	}
	w.turns = append(w.turns[:0], turns...)
}

func (w *Window) Append(turn models.Turn) {
	w.turns = append(w.turns, turn)
	if len(w.turns) > w.cap {
		w.turns = w.turns[len(w.turns)-w.cap:]
	}
}

// Turns returns a copy of the current window, oldest first.
func (w *Window) Turns() []models.Turn {
	out := make([]models.Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

func (w *Window) Len() int {
	return len(w.turns)
}
