// Package audio gates alert sounds behind an explicit user gesture.
//
// A Gate starts locked. Unlock runs a silent probe; once it succeeds the gate
// stays unlocked for the rest of the process. A new process starts locked
// again.
package audio

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnlockFailed     = errors.New("audio: unlock failed")
	ErrSoundUnavailable = errors.New("audio: sound unavailable")
)

type State string

const (
	StateLocked   State = "locked"
	StateUnlocked State = "unlocked"
)

// Player plays the alert clip from its start, regardless of whether a
// previous play is still running.
type Player interface {
	Play() error
}

// Probe is the play-then-pause of a silent clip that proves the output is
// allowed to make sound.
type Probe func() error

type Gate struct {
	mu     sync.Mutex
	state  State
	player Player
	probe  Probe
}

func NewGate(player Player, probe Probe) *Gate {
	return &Gate{
		state:  StateLocked,
		player: player,
		probe:  probe,
	}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Locked() bool {
	return g.State() == StateLocked
}

// Unlock is the user gesture. On failure the gate stays locked and the
// caller may retry.
func (g *Gate) Unlock() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateUnlocked {
		return nil
	}

	if g.probe != nil {
		if err := g.probe(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnlockFailed, err)
		}
	}

	g.state = StateUnlocked
	return nil
}

// Alert plays the clip once when unlocked and reports whether it did. While
// locked the request is dropped silently. A play failure is returned but
// never locks the gate again.
func (g *Gate) Alert() (bool, error) {
	g.mu.Lock()
	unlocked := g.state == StateUnlocked
	g.mu.Unlock()

	if !unlocked {
		return false, nil
	}

	if g.player == nil {
		return false, ErrSoundUnavailable
	}
	if err := g.player.Play(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrSoundUnavailable, err)
	}
	return true, nil
}
