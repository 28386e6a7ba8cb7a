// Package motion owns the single-step movement primitive and its obstruction
// recovery loop.
package motion

import (
	"context"
	"errors"
	"time"

	"fieldharvest.ai/internal/actuator"
	"fieldharvest.ai/internal/agent/pose"
)

// ErrBlocked reports that a step stayed obstructed after every retry. The
// run cannot continue safely past it.
var ErrBlocked = errors.New("motion: path blocked after retries")

const (
	DefaultMaxRetries = 64
	DefaultBackoff    = 500 * time.Millisecond
)

type Config struct {
	// MaxRetries bounds obstruction recovery per step. <=0 means default.
	MaxRetries int
	// Backoff is the pause between retries, to avoid hammering a
	// rate-limited actuator. <=0 means default.
	Backoff time.Duration
	// Sleep is injectable for tests. nil means time.Sleep via the context
	// aware wait.
	Sleep func(d time.Duration)
}

type Mover struct {
	act     actuator.Actuator
	tracker *pose.Tracker

	maxRetries int
	backoff    time.Duration
	sleep      func(d time.Duration)
}

func NewMover(act actuator.Actuator, tracker *pose.Tracker, cfg Config) *Mover {
	m := &Mover{
		act:        act,
		tracker:    tracker,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		sleep:      cfg.Sleep,
	}
	if m.maxRetries <= 0 {
		m.maxRetries = DefaultMaxRetries
	}
	if m.backoff <= 0 {
		m.backoff = DefaultBackoff
	}
	return m
}

// Forward takes one step, clearing transient obstructions along the way. On
// success the tracked pose advances one unit along the current facing. An
// obstruction that survives every retry surfaces as ErrBlocked.
func (m *Mover) Forward(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		ok, err := m.act.StepForward()
		if err != nil {
			return err
		}
		if ok {
			m.tracker.Advance()
			return nil
		}
		if attempt >= m.maxRetries {
			return ErrBlocked
		}
		if err := m.act.ClearAhead(); err != nil {
			return err
		}
		if err := m.act.AttackAhead(); err != nil {
			return err
		}
		if err := m.wait(ctx); err != nil {
			return err
		}
	}
}

func (m *Mover) wait(ctx context.Context) error {
	if m.sleep != nil {
		m.sleep(m.backoff)
		return ctx.Err()
	}
	t := time.NewTimer(m.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
