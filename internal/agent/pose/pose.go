// Package pose tracks the agent's dead-reckoned position and facing. The
// tracker is the only writer; it mutates state only after the actuator
// confirms a turn or a step.
package pose

import (
	"fmt"

	"fieldharvest.ai/internal/actuator"
)

// Dir is a 4-way facing. Values are ordered clockwise so turn arithmetic is
// modulo-4.
type Dir int

const (
	East Dir = iota
	South
	West
	North
)

// Home is the canonical facing into the work area. The depot sits directly
// behind it.
const Home = East

// Depot is the facing toward the depot from the home cell.
const Depot = West

func (d Dir) Right() Dir { return (d + 1) % 4 }
func (d Dir) Left() Dir  { return (d + 3) % 4 }

// Delta is the unit step along the facing axis.
func (d Dir) Delta() (dx, dz int) {
	switch d {
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, -1
	}
}

func (d Dir) String() string {
	switch d {
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	default:
		return "NORTH"
	}
}

// Pose is the agent's relative position and facing. (0,0,East) is home.
type Pose struct {
	X      int
	Z      int
	Facing Dir
}

func (p Pose) String() string {
	return fmt.Sprintf("(%d,%d,%s)", p.X, p.Z, p.Facing)
}

type Tracker struct {
	act actuator.Actuator
	p   Pose
}

func NewTracker(act actuator.Actuator) *Tracker {
	return &Tracker{act: act, p: Pose{Facing: Home}}
}

func (t *Tracker) Pose() Pose { return t.p }

func (t *Tracker) TurnLeft() error {
	if err := t.act.TurnLeft(); err != nil {
		return err
	}
	t.p.Facing = t.p.Facing.Left()
	return nil
}

func (t *Tracker) TurnRight() error {
	if err := t.act.TurnRight(); err != nil {
		return err
	}
	t.p.Facing = t.p.Facing.Right()
	return nil
}

func (t *Tracker) TurnAround() error {
	if err := t.TurnRight(); err != nil {
		return err
	}
	return t.TurnRight()
}

// Face rotates clockwise until the tracker faces target. Costs 0-3 physical
// turns; not shortest-path, matching the single-direction turn discipline.
func (t *Tracker) Face(target Dir) error {
	for t.p.Facing != target {
		if err := t.TurnRight(); err != nil {
			return err
		}
	}
	return nil
}

// Advance records one confirmed forward step. Callers must only invoke it
// after the actuator reported the step succeeded.
func (t *Tracker) Advance() {
	dx, dz := t.p.Facing.Delta()
	t.p.X += dx
	t.p.Z += dz
}
