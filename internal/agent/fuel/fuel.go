// Package fuel budgets movement fuel for a coverage run.
package fuel

import (
	"errors"

	"fieldharvest.ai/internal/actuator"
	"fieldharvest.ai/internal/agent/cargo"
)

// ErrShortfall reports that fuel stayed below the run estimate even after a
// refuel intake. Continuing would risk stranding the agent mid-field.
var ErrShortfall = errors.New("fuel: level below run estimate after refuel")

const (
	DefaultSafetyBuffer      = 20
	DefaultRefuelMaxAttempts = 128
)

// EstimateNeeded models the serpentine path: (w*l - 1) cell-to-cell steps
// plus (l - 1) row-shift steps, plus a worst-case dump round trip triggered
// at the farthest cell, plus a safety buffer. Non-decreasing in both
// dimensions.
func EstimateNeeded(width, length, buffer int) int {
	path := (width*length - 1) + (length - 1)
	roundTrip := 2 * ((width - 1) + (length - 1))
	return path + roundTrip + buffer
}

type Manager struct {
	act   actuator.Actuator
	cargo *cargo.Manager

	buffer      int
	maxAttempts int
}

type Config struct {
	// SafetyBuffer is added to every run estimate. <=0 means default.
	SafetyBuffer int
	// RefuelMaxAttempts bounds one depot intake pass. <=0 means default.
	RefuelMaxAttempts int
}

func NewManager(act actuator.Actuator, cargoMgr *cargo.Manager, cfg Config) *Manager {
	m := &Manager{
		act:         act,
		cargo:       cargoMgr,
		buffer:      cfg.SafetyBuffer,
		maxAttempts: cfg.RefuelMaxAttempts,
	}
	if m.buffer <= 0 {
		m.buffer = DefaultSafetyBuffer
	}
	if m.maxAttempts <= 0 {
		m.maxAttempts = DefaultRefuelMaxAttempts
	}
	return m
}

// Ensure checks the live fuel reading against the run estimate, refueling
// from the depot if short. It reports whether the post-refuel level meets
// the estimate and how many items were burned; interpreting a false as
// fatal is the caller's call.
func (m *Manager) Ensure(width, length int) (ok bool, burned int, err error) {
	level, err := m.act.FuelLevel()
	if err != nil {
		return false, 0, err
	}
	if level.Unlimited() {
		return true, 0, nil
	}
	need := EstimateNeeded(width, length, m.buffer)
	if level.Units() >= need {
		return true, 0, nil
	}
	burned, err = m.cargo.RefuelIntake(m.maxAttempts)
	if err != nil {
		return false, burned, err
	}
	level, err = m.act.FuelLevel()
	if err != nil {
		return false, burned, err
	}
	return level.Units() >= need, burned, nil
}
