// Package nav relocates the agent to arbitrary relative coordinates using an
// axis-sequential route: the X displacement is resolved fully before the Z
// displacement.
package nav

import (
	"context"

	"fieldharvest.ai/internal/agent/motion"
	"fieldharvest.ai/internal/agent/pose"
)

type Navigator struct {
	tracker *pose.Tracker
	mover   *motion.Mover
}

func New(tracker *pose.Tracker, mover *motion.Mover) *Navigator {
	return &Navigator{tracker: tracker, mover: mover}
}

// MoveTo drives the agent to (x, z). After a successful return the tracked
// pose sits exactly on the target; the facing is whatever the final leg left
// it at.
func (n *Navigator) MoveTo(ctx context.Context, x, z int) error {
	p := n.tracker.Pose()

	if dx := x - p.X; dx != 0 {
		dir := pose.East
		if dx < 0 {
			dir = pose.West
			dx = -dx
		}
		if err := n.leg(ctx, dir, dx); err != nil {
			return err
		}
	}
	if dz := z - n.tracker.Pose().Z; dz != 0 {
		dir := pose.South
		if dz < 0 {
			dir = pose.North
			dz = -dz
		}
		if err := n.leg(ctx, dir, dz); err != nil {
			return err
		}
	}
	return nil
}

// GoHome returns to the origin and faces into the work area.
func (n *Navigator) GoHome(ctx context.Context) error {
	if err := n.MoveTo(ctx, 0, 0); err != nil {
		return err
	}
	return n.tracker.Face(pose.Home)
}

func (n *Navigator) leg(ctx context.Context, dir pose.Dir, steps int) error {
	if err := n.tracker.Face(dir); err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		if err := n.mover.Forward(ctx); err != nil {
			return err
		}
	}
	return nil
}
