// Package field is an in-memory rectangular field world serving the actuator
// contract: crops to harvest, a depot chest behind home, finite or unlimited
// fuel, and clearable obstructions. It backs the fieldsim server and the
// agent's tests.
package field

import (
	"fmt"
	"math/rand"
	"sync"

	"fieldharvest.ai/internal/actuator"
)

const Slots = 16

// World content identities.
const (
	CropMelon     = "crop:melon"
	CropMelonStem = "crop:melon_stem"
	CropPumpkin   = "crop:pumpkin"
	ItemBiofuel   = "item:biofuel"
)

const (
	// FuelPerItem is the movement units one biofuel item burns into.
	FuelPerItem = 80
	stackMax    = 64
)

type Cell struct{ X, Z int }

type Stack struct {
	ID    string
	Count int
}

type Config struct {
	Width  int
	Length int
	Seed   int64

	FuelUnlimited bool
	FuelUnits     int

	// DepotStock is what the depot chest starts with.
	DepotStock []Stack

	// Crops overrides the seeded layout when non-nil. Keys are field cells
	// (x in [0,Width), z in [0,Length)).
	Crops map[Cell]string

	// Obstacles maps a cell to how many clear/attack hits it takes before
	// the cell becomes passable.
	Obstacles map[Cell]int
}

// World owns all simulated state. The agent starts at home (0,0) facing
// east into the field; the depot chest sits at (-1,0).
type World struct {
	mu sync.Mutex

	width, length int
	seed          int64

	x, z     int
	facing   int // 0=E 1=S 2=W 3=N
	selected int

	inv       [Slots]Stack
	fuel      int
	unlimited bool

	crops     map[Cell]string
	obstacles map[Cell]int
	depot     []Stack

	harvested []Cell
}

var depotCell = Cell{X: -1, Z: 0}

func New(cfg Config) *World {
	w := &World{
		width:     cfg.Width,
		length:    cfg.Length,
		seed:      cfg.Seed,
		selected:  1,
		fuel:      cfg.FuelUnits,
		unlimited: cfg.FuelUnlimited,
		crops:     map[Cell]string{},
		obstacles: map[Cell]int{},
		depot:     append([]Stack(nil), cfg.DepotStock...),
	}
	if cfg.Crops != nil {
		for c, id := range cfg.Crops {
			w.crops[c] = id
		}
	} else {
		w.seedCrops()
	}
	for c, hits := range cfg.Obstacles {
		if hits > 0 {
			w.obstacles[c] = hits
		}
	}
	return w
}

func (w *World) seedCrops() {
	r := rand.New(rand.NewSource(w.seed))
	for z := 0; z < w.length; z++ {
		for x := 0; x < w.width; x++ {
			switch roll := r.Float64(); {
			case roll < 0.5:
				w.crops[Cell{x, z}] = CropMelon
			case roll < 0.7:
				w.crops[Cell{x, z}] = CropMelonStem
			}
		}
	}
}

func (w *World) Params() (width, length int, fuelUnlimited bool, seed int64) {
	return w.width, w.length, w.unlimited, w.seed
}

func (w *World) ahead() Cell {
	c := Cell{w.x, w.z}
	switch w.facing {
	case 0:
		c.X++
	case 1:
		c.Z++
	case 2:
		c.X--
	default:
		c.Z--
	}
	return c
}

// StepForward implements actuator.Actuator. A step fails (without error)
// when the cell ahead is still obstructed or finite fuel is exhausted.
func (w *World) StepForward() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.ahead()
	if w.obstacles[target] > 0 {
		return false, nil
	}
	if !w.unlimited && w.fuel <= 0 {
		return false, nil
	}
	w.x, w.z = target.X, target.Z
	if !w.unlimited {
		w.fuel--
	}
	return true, nil
}

func (w *World) TurnLeft() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.facing = (w.facing + 3) % 4
	return nil
}

func (w *World) TurnRight() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.facing = (w.facing + 1) % 4
	return nil
}

func (w *World) ClearAhead() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hitAhead()
	return nil
}

func (w *World) AttackAhead() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hitAhead()
	return nil
}

func (w *World) hitAhead() {
	target := w.ahead()
	if hits := w.obstacles[target]; hits > 0 {
		if hits == 1 {
			delete(w.obstacles, target)
		} else {
			w.obstacles[target] = hits - 1
		}
	}
	delete(w.crops, target)
}

func (w *World) InspectBelow() (bool, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.crops[Cell{w.x, w.z}]
	return ok, id, nil
}

// ClearBelow removes the cell content under the agent and stows it in the
// inventory (stacking onto a matching slot, else the first empty one).
func (w *World) ClearBelow() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	here := Cell{w.x, w.z}
	id, ok := w.crops[here]
	if !ok {
		return nil
	}
	delete(w.crops, here)
	w.harvested = append(w.harvested, here)
	w.stow(id, 1)
	return nil
}

func (w *World) stow(id string, n int) {
	for i := range w.inv {
		if w.inv[i].ID == id && w.inv[i].Count > 0 && w.inv[i].Count+n <= stackMax {
			w.inv[i].Count += n
			return
		}
	}
	for i := range w.inv {
		if w.inv[i].Count == 0 {
			w.inv[i] = Stack{ID: id, Count: n}
			return
		}
	}
	// Inventory full: the content is lost on the ground.
}

func (w *World) SelectSlot(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 1 || i > Slots {
		return fmt.Errorf("field: slot %d out of range", i)
	}
	w.selected = i
	return nil
}

func (w *World) SlotCount(i int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 1 || i > Slots {
		return 0, fmt.Errorf("field: slot %d out of range", i)
	}
	return w.inv[i-1].Count, nil
}

// DepositForward moves items from the selected slot into whatever is ahead:
// the depot chest keeps them, anywhere else drops them into the void.
func (w *World) DepositForward(count int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := &w.inv[w.selected-1]
	if s.Count == 0 {
		return nil
	}
	n := s.Count
	if count != actuator.AllItems && count < n {
		n = count
	}
	if n <= 0 {
		return nil
	}
	if w.ahead() == depotCell {
		w.depotAdd(s.ID, n)
	}
	s.Count -= n
	if s.Count == 0 {
		s.ID = ""
	}
	return nil
}

// depotAdd appends at the back of the chest, merging only with the last
// stack. Withdrawals serve the front, so an item the agent puts back does
// not come out again before everything ahead of it.
func (w *World) depotAdd(id string, n int) {
	if last := len(w.depot) - 1; last >= 0 &&
		w.depot[last].ID == id && w.depot[last].Count+n <= stackMax {
		w.depot[last].Count += n
		return
	}
	w.depot = append(w.depot, Stack{ID: id, Count: n})
}

// WithdrawForward pulls up to count items of the depot's first stack into
// the selected slot. Fails (without error) when the agent is not facing the
// depot, the depot is empty, or the slot cannot take the items.
func (w *World) WithdrawForward(count int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ahead() != depotCell || count <= 0 {
		return false, nil
	}
	src := -1
	for i := range w.depot {
		if w.depot[i].Count > 0 {
			src = i
			break
		}
	}
	if src == -1 {
		return false, nil
	}
	n := count
	if w.depot[src].Count < n {
		n = w.depot[src].Count
	}
	s := &w.inv[w.selected-1]
	switch {
	case s.Count == 0:
		s.ID = w.depot[src].ID
	case s.ID != w.depot[src].ID || s.Count+n > stackMax:
		return false, nil
	}
	s.Count += n
	w.depot[src].Count -= n
	if w.depot[src].Count == 0 {
		w.depot = append(w.depot[:src], w.depot[src+1:]...)
	}
	return true, nil
}

func (w *World) FuelLevel() (actuator.FuelLevel, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unlimited {
		return actuator.Unlimited(), nil
	}
	return actuator.Finite(w.fuel), nil
}

func (w *World) ConsumeSelectedAsFuel(amount int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if amount <= 0 {
		return false, nil
	}
	s := &w.inv[w.selected-1]
	if s.ID != ItemBiofuel || s.Count < amount {
		return false, nil
	}
	s.Count -= amount
	if s.Count == 0 {
		s.ID = ""
	}
	if !w.unlimited {
		w.fuel += amount * FuelPerItem
	}
	return true, nil
}

// Test and status accessors.

func (w *World) AgentAt() (x, z int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.x, w.z
}

func (w *World) AgentFacing() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return [...]string{"EAST", "SOUTH", "WEST", "NORTH"}[w.facing]
}

func (w *World) Fuel() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fuel
}

func (w *World) DepotContents() []Stack {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Stack, 0, len(w.depot))
	for _, s := range w.depot {
		if s.Count > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (w *World) DepotCount(id string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	total := 0
	for _, s := range w.depot {
		if s.ID == id {
			total += s.Count
		}
	}
	return total
}

// HarvestOrder lists cleared cells in the order they were cleared.
func (w *World) HarvestOrder() []Cell {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Cell(nil), w.harvested...)
}

func (w *World) CropAt(c Cell) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.crops[c]
	return id, ok
}

// FillSlot pre-loads a slot for tests.
func (w *World) FillSlot(i int, id string, count int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 1 || i > Slots {
		return
	}
	w.inv[i-1] = Stack{ID: id, Count: count}
}

func (w *World) SlotStack(i int) Stack {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inv[i-1]
}
