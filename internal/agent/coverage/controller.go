// Package coverage drives the serpentine scan over the field: visit every
// cell, harvest it, and suspend into a dump-and-refuel cycle at the depot
// whenever the inventory fills, resuming at the exact cell left off.
package coverage

import (
	"context"
	"fmt"
	"log"
	"time"

	"fieldharvest.ai/internal/agent/cargo"
	"fieldharvest.ai/internal/agent/fuel"
	"fieldharvest.ai/internal/agent/harvest"
	"fieldharvest.ai/internal/agent/motion"
	"fieldharvest.ai/internal/agent/nav"
	"fieldharvest.ai/internal/agent/pose"
)

type State string

const (
	StateScanning         State = "SCANNING"
	StateSuspendedForDump State = "SUSPENDED_FOR_DUMP"
	StateComplete         State = "COMPLETE"
)

// Task is the fixed work order for one run.
type Task struct {
	Width  int
	Length int
}

func (t Task) Validate() error {
	if t.Width < 1 || t.Length < 1 {
		return fmt.Errorf("coverage: task %dx%d: both dimensions must be >= 1", t.Width, t.Length)
	}
	return nil
}

// Report summarizes a completed run.
type Report struct {
	Width      int           `json:"width"`
	Length     int           `json:"length"`
	Cells      int           `json:"cells"`
	Harvested  int           `json:"harvested"`
	DumpCycles int           `json:"dump_cycles"`
	FuelBurned int           `json:"fuel_burned"`
	Duration   time.Duration `json:"duration"`
}

// Journal receives one machine-readable record per run event. runlog.Journal
// satisfies it; a nil journal disables recording.
type Journal interface {
	Write(v any) error
}

// Event is the journal record shape.
type Event struct {
	Kind      string `json:"kind"` // CELL | DUMP | REFUEL | COMPLETE
	Row       int    `json:"row,omitempty"`
	Col       int    `json:"col,omitempty"`
	Harvested bool   `json:"harvested,omitempty"`
	Identity  string `json:"identity,omitempty"`
	Burned    int    `json:"burned,omitempty"`
	At        int64  `json:"at_unix_ms"`
}

type Controller struct {
	tracker *pose.Tracker
	mover   *motion.Mover
	nav     *nav.Navigator
	cargo   *cargo.Manager
	fuel    *fuel.Manager
	policy  harvest.Policy

	journal Journal
	log     *log.Logger

	state  State
	report Report
}

func NewController(
	tracker *pose.Tracker,
	mover *motion.Mover,
	navigator *nav.Navigator,
	cargoMgr *cargo.Manager,
	fuelMgr *fuel.Manager,
	policy harvest.Policy,
	journal Journal,
	logger *log.Logger,
) *Controller {
	return &Controller{
		tracker: tracker,
		mover:   mover,
		nav:     navigator,
		cargo:   cargoMgr,
		fuel:    fuelMgr,
		policy:  policy,
		journal: journal,
		log:     logger,
		state:   StateScanning,
	}
}

func (c *Controller) State() State { return c.state }

// Run covers the whole field. It assumes the agent starts at home, at the
// grid's (row 1, col 1) cell, facing into the field, with the depot directly
// behind. On success the agent is back home facing the field, the inventory
// is dumped, and the state is Complete.
func (c *Controller) Run(ctx context.Context, task Task) (Report, error) {
	if err := task.Validate(); err != nil {
		return Report{}, err
	}
	start := time.Now()
	c.state = StateScanning
	c.report = Report{Width: task.Width, Length: task.Length}

	if err := c.ensureFuel(task); err != nil {
		return c.report, err
	}

	for row := 1; row <= task.Length; row++ {
		for i := 1; i <= task.Width; i++ {
			if err := c.visitCell(ctx, task); err != nil {
				return c.report, err
			}
			if i < task.Width {
				if err := c.mover.Forward(ctx); err != nil {
					return c.report, err
				}
			}
		}
		if row < task.Length {
			if err := c.shiftRow(ctx, row); err != nil {
				return c.report, err
			}
		}
	}

	// Final unload, capacity or not.
	if err := c.nav.GoHome(ctx); err != nil {
		return c.report, err
	}
	if err := c.cargo.DumpAll(); err != nil {
		return c.report, err
	}
	c.state = StateComplete
	c.report.Duration = time.Since(start)
	c.record(Event{Kind: "COMPLETE"})
	if c.log != nil {
		c.log.Printf("run complete field=%dx%d cells=%d harvested=%d dumps=%d",
			task.Width, task.Length, c.report.Cells, c.report.Harvested, c.report.DumpCycles)
	}
	return c.report, nil
}

// visitCell runs the cell action, then the capacity check. A full inventory
// suspends the scan for a depot round trip before any further movement, so
// an exhaustion on the last cell of a row is handled before the row shift.
func (c *Controller) visitCell(ctx context.Context, task Task) error {
	harvested, identity, err := c.policy.HarvestCell()
	if err != nil {
		return err
	}
	p := c.tracker.Pose()
	c.report.Cells++
	if harvested {
		c.report.Harvested++
	}
	c.record(Event{
		Kind:      "CELL",
		Row:       p.Z + 1,
		Col:       p.X + 1,
		Harvested: harvested,
		Identity:  identity,
	})

	ok, err := c.cargo.HasCapacity()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return c.suspendForDump(ctx, task)
}

// suspendForDump checkpoints the pose, makes the depot round trip, and puts
// the agent back on the checkpoint exactly. The current cell's action is not
// re-run on resume.
func (c *Controller) suspendForDump(ctx context.Context, task Task) error {
	checkpoint := c.tracker.Pose()
	c.state = StateSuspendedForDump
	if c.log != nil {
		c.log.Printf("inventory full at %s, dumping", checkpoint)
	}

	if err := c.nav.GoHome(ctx); err != nil {
		return err
	}
	if err := c.cargo.DumpAll(); err != nil {
		return err
	}
	c.report.DumpCycles++
	c.record(Event{Kind: "DUMP"})

	if err := c.ensureFuel(task); err != nil {
		return err
	}

	if err := c.nav.MoveTo(ctx, checkpoint.X, checkpoint.Z); err != nil {
		return err
	}
	if err := c.tracker.Face(checkpoint.Facing); err != nil {
		return err
	}
	c.state = StateScanning
	return nil
}

func (c *Controller) ensureFuel(task Task) error {
	ok, burned, err := c.fuel.Ensure(task.Width, task.Length)
	if burned > 0 {
		c.report.FuelBurned += burned
		c.record(Event{Kind: "REFUEL", Burned: burned})
	}
	if err != nil {
		return err
	}
	if !ok {
		return fuel.ErrShortfall
	}
	return nil
}

// shiftRow advances one row and reverses the traversal direction. Odd rows
// turn right twice around the step, even rows left twice, producing the
// boustrophedon path.
func (c *Controller) shiftRow(ctx context.Context, row int) error {
	turn := c.tracker.TurnRight
	if row%2 == 0 {
		turn = c.tracker.TurnLeft
	}
	if err := turn(); err != nil {
		return err
	}
	if err := c.mover.Forward(ctx); err != nil {
		return err
	}
	return turn()
}

func (c *Controller) record(ev Event) {
	if c.journal == nil {
		return
	}
	ev.At = time.Now().UnixMilli()
	if err := c.journal.Write(ev); err != nil && c.log != nil {
		c.log.Printf("journal write: %v", err)
	}
}
