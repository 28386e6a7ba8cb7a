// Package actuator defines the boundary between the coverage agent and the
// physical (or simulated) machine it drives. Every call is synchronous; the
// agent issues one operation at a time.
package actuator

// AllItems asks DepositForward to deposit the selected slot's full contents.
const AllItems = -1

// FuelLevel is a tagged reading: either a finite number of movement units or
// an unlimited supply. The zero value is Finite(0).
type FuelLevel struct {
	unlimited bool
	units     int
}

func Finite(units int) FuelLevel {
	if units < 0 {
		units = 0
	}
	return FuelLevel{units: units}
}

func Unlimited() FuelLevel { return FuelLevel{unlimited: true} }

func (l FuelLevel) Unlimited() bool { return l.unlimited }

// Units is only meaningful when Unlimited reports false.
func (l FuelLevel) Units() int { return l.units }

// Actuator is the external machine surface. Boolean results report world
// outcomes (blocked, depot empty, not a fuel item); errors report transport
// or machine failures and are always fatal to the run.
type Actuator interface {
	// Movement.
	StepForward() (bool, error)
	TurnLeft() error
	TurnRight() error

	// World interaction.
	ClearAhead() error
	ClearBelow() error
	AttackAhead() error
	InspectBelow() (present bool, identity string, err error)

	// Inventory. Slots are 1-based.
	SelectSlot(i int) error
	SlotCount(i int) (int, error)
	DepositForward(count int) error
	WithdrawForward(count int) (bool, error)

	// Fuel.
	FuelLevel() (FuelLevel, error)
	ConsumeSelectedAsFuel(amount int) (bool, error)
}
