package cargo_test

import (
	"testing"

	"fieldharvest.ai/internal/agent/cargo"
	"fieldharvest.ai/internal/agent/pose"
	"fieldharvest.ai/internal/sim/field"
)

func TestHasCapacity(t *testing.T) {
	w := field.New(field.Config{Width: 1, Length: 1, FuelUnlimited: true})
	tr := pose.NewTracker(w)
	m := cargo.NewManager(w, tr)

	ok, err := m.HasCapacity()
	if err != nil || !ok {
		t.Fatalf("empty inventory: ok=%v err=%v", ok, err)
	}

	for i := 1; i <= cargo.Slots; i++ {
		w.FillSlot(i, "crop:melon", 1)
	}
	ok, err = m.HasCapacity()
	if err != nil || ok {
		t.Fatalf("full inventory: ok=%v err=%v", ok, err)
	}

	w.FillSlot(7, "", 0)
	ok, err = m.HasCapacity()
	if err != nil || !ok {
		t.Fatalf("one free slot: ok=%v err=%v", ok, err)
	}
}

func TestDumpAllEmptiesEverySlot(t *testing.T) {
	w := field.New(field.Config{Width: 1, Length: 1, FuelUnlimited: true})
	tr := pose.NewTracker(w)
	m := cargo.NewManager(w, tr)

	w.FillSlot(1, "crop:melon", 12)
	w.FillSlot(5, "crop:pumpkin", 3)
	w.FillSlot(16, "crop:melon", 1)

	if err := m.DumpAll(); err != nil {
		t.Fatalf("dump all: %v", err)
	}
	for i := 1; i <= cargo.Slots; i++ {
		if n, _ := w.SlotCount(i); n != 0 {
			t.Fatalf("slot %d still holds %d", i, n)
		}
	}
	if got := w.DepotCount("crop:melon"); got != 13 {
		t.Fatalf("depot melon count %d, want 13", got)
	}
	if got := w.DepotCount("crop:pumpkin"); got != 3 {
		t.Fatalf("depot pumpkin count %d, want 3", got)
	}
	if got := tr.Pose().Facing; got != pose.Home {
		t.Fatalf("facing not restored: %s", got)
	}
}

func TestDumpAllRestoresPriorFacing(t *testing.T) {
	w := field.New(field.Config{Width: 1, Length: 1, FuelUnlimited: true})
	tr := pose.NewTracker(w)
	m := cargo.NewManager(w, tr)

	if err := tr.Face(pose.North); err != nil {
		t.Fatalf("face north: %v", err)
	}
	w.FillSlot(2, "crop:melon", 4)
	if err := m.DumpAll(); err != nil {
		t.Fatalf("dump all: %v", err)
	}
	if got := tr.Pose().Facing; got != pose.North {
		t.Fatalf("facing %s, want NORTH", got)
	}
}

func TestRefuelIntakeBurnsFuelAndReturnsJunk(t *testing.T) {
	w := field.New(field.Config{
		Width: 1, Length: 1, FuelUnits: 0,
		DepotStock: []field.Stack{
			{ID: "crop:melon", Count: 3},
			{ID: field.ItemBiofuel, Count: 5},
		},
	})
	tr := pose.NewTracker(w)
	m := cargo.NewManager(w, tr)

	burned, err := m.RefuelIntake(64)
	if err != nil {
		t.Fatalf("refuel intake: %v", err)
	}
	if burned != 5 {
		t.Fatalf("burned %d items, want 5", burned)
	}
	if got := w.Fuel(); got != 5*field.FuelPerItem {
		t.Fatalf("fuel %d, want %d", got, 5*field.FuelPerItem)
	}
	// The junk went back to the depot instead of staying on board.
	if got := w.DepotCount("crop:melon"); got != 3 {
		t.Fatalf("depot melon count %d, want 3", got)
	}
	for i := 1; i <= cargo.Slots; i++ {
		if n, _ := w.SlotCount(i); n != 0 {
			t.Fatalf("slot %d holds %d after intake", i, n)
		}
	}
	if got := tr.Pose().Facing; got != pose.Home {
		t.Fatalf("facing not restored: %s", got)
	}
}

func TestRefuelIntakeStopsOnEmptyDepot(t *testing.T) {
	w := field.New(field.Config{Width: 1, Length: 1, FuelUnits: 0})
	tr := pose.NewTracker(w)
	m := cargo.NewManager(w, tr)

	burned, err := m.RefuelIntake(64)
	if err != nil {
		t.Fatalf("refuel intake: %v", err)
	}
	if burned != 0 {
		t.Fatalf("burned %d from an empty depot", burned)
	}
}

func TestRefuelIntakeStopsWhenNoSlotFree(t *testing.T) {
	w := field.New(field.Config{
		Width: 1, Length: 1, FuelUnits: 0,
		DepotStock: []field.Stack{{ID: field.ItemBiofuel, Count: 8}},
	})
	for i := 1; i <= cargo.Slots; i++ {
		w.FillSlot(i, "crop:pumpkin", 1)
	}
	tr := pose.NewTracker(w)
	m := cargo.NewManager(w, tr)

	burned, err := m.RefuelIntake(64)
	if err != nil {
		t.Fatalf("refuel intake: %v", err)
	}
	if burned != 0 {
		t.Fatalf("burned %d with no free slot", burned)
	}
	if got := w.DepotCount(field.ItemBiofuel); got != 8 {
		t.Fatalf("depot fuel count %d, want 8", got)
	}
}
