// Package cargo manages the agent's fixed-size inventory and its exchanges
// with the depot chest behind the home cell.
package cargo

import (
	"fieldharvest.ai/internal/actuator"
	"fieldharvest.ai/internal/agent/pose"
)

const (
	// Slots is the machine's inventory size.
	Slots = 16
	// DefaultSlot is reselected after any bulk operation so the machine is
	// left in a predictable state.
	DefaultSlot = 1
)

type Manager struct {
	act     actuator.Actuator
	tracker *pose.Tracker
}

func NewManager(act actuator.Actuator, tracker *pose.Tracker) *Manager {
	return &Manager{act: act, tracker: tracker}
}

// HasCapacity reports whether at least one slot is empty.
func (m *Manager) HasCapacity() (bool, error) {
	for i := 1; i <= Slots; i++ {
		n, err := m.act.SlotCount(i)
		if err != nil {
			return false, err
		}
		if n == 0 {
			return true, nil
		}
	}
	return false, nil
}

// DumpAll turns toward the depot, deposits every nonzero slot in full, then
// restores the default slot and the original facing. The depot is assumed
// unbounded; deposits are not verified.
func (m *Manager) DumpAll() error {
	prev := m.tracker.Pose().Facing
	if err := m.tracker.Face(pose.Depot); err != nil {
		return err
	}
	for i := 1; i <= Slots; i++ {
		n, err := m.act.SlotCount(i)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if err := m.act.SelectSlot(i); err != nil {
			return err
		}
		if err := m.act.DepositForward(actuator.AllItems); err != nil {
			return err
		}
	}
	if err := m.act.SelectSlot(DefaultSlot); err != nil {
		return err
	}
	return m.tracker.Face(prev)
}

// RefuelIntake draws items from the depot one at a time and burns the ones
// that are valid fuel, putting anything else straight back. Drawing one item
// into an empty slot keeps harvested cargo in the depot from being pulled
// out in bulk. Returns the number of items burned.
//
// The loop ends early when no slot is free or the depot stops serving; both
// are normal, not errors.
func (m *Manager) RefuelIntake(maxAttempts int) (int, error) {
	prev := m.tracker.Pose().Facing
	if err := m.tracker.Face(pose.Depot); err != nil {
		return 0, err
	}
	burned := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		slot, found, err := m.findEmptySlot()
		if err != nil {
			return burned, err
		}
		if !found {
			break
		}
		if err := m.act.SelectSlot(slot); err != nil {
			return burned, err
		}
		ok, err := m.act.WithdrawForward(1)
		if err != nil {
			return burned, err
		}
		if !ok {
			break
		}
		consumed, err := m.act.ConsumeSelectedAsFuel(1)
		if err != nil {
			return burned, err
		}
		if consumed {
			burned++
			continue
		}
		if err := m.act.DepositForward(actuator.AllItems); err != nil {
			return burned, err
		}
	}
	if err := m.act.SelectSlot(DefaultSlot); err != nil {
		return burned, err
	}
	if err := m.tracker.Face(prev); err != nil {
		return burned, err
	}
	return burned, nil
}

func (m *Manager) findEmptySlot() (int, bool, error) {
	for i := 1; i <= Slots; i++ {
		n, err := m.act.SlotCount(i)
		if err != nil {
			return 0, false, err
		}
		if n == 0 {
			return i, true, nil
		}
	}
	return 0, false, nil
}
