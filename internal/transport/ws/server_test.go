package ws_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fieldharvest.ai/internal/actuator"
	"fieldharvest.ai/internal/agent/cargo"
	"fieldharvest.ai/internal/agent/coverage"
	"fieldharvest.ai/internal/agent/fuel"
	"fieldharvest.ai/internal/agent/harvest"
	"fieldharvest.ai/internal/agent/motion"
	"fieldharvest.ai/internal/agent/nav"
	"fieldharvest.ai/internal/agent/pose"
	"fieldharvest.ai/internal/sim/field"
	"fieldharvest.ai/internal/transport/ws"
)

func startField(t *testing.T, cfg field.Config) (*field.World, string) {
	t.Helper()
	world := field.New(cfg)
	srv := httptest.NewServer(ws.NewServer(world, nil).Handler())
	t.Cleanup(srv.Close)
	return world, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHandshake(t *testing.T) {
	_, url := startField(t, field.Config{Width: 4, Length: 3, FuelUnlimited: true})
	client, err := actuator.Dial(url, "itest")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	params := client.FieldParams()
	if params.Width != 4 || params.Length != 3 || !params.FuelUnlimited {
		t.Fatalf("field params %+v", params)
	}
	if client.AgentID() != "itest" {
		t.Fatalf("agent id %q", client.AgentID())
	}
}

func TestActuatorOverWire(t *testing.T) {
	world, url := startField(t, field.Config{
		Width: 2, Length: 1, FuelUnits: 10,
		Crops:      map[field.Cell]string{{X: 0, Z: 0}: field.CropMelon},
		DepotStock: []field.Stack{{ID: field.ItemBiofuel, Count: 2}},
	})
	client, err := actuator.Dial(url, "itest")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	present, identity, err := client.InspectBelow()
	if err != nil || !present || identity != field.CropMelon {
		t.Fatalf("inspect: present=%v identity=%q err=%v", present, identity, err)
	}
	if err := client.ClearBelow(); err != nil {
		t.Fatalf("clear below: %v", err)
	}
	if n, err := client.SlotCount(1); err != nil || n != 1 {
		t.Fatalf("slot count: n=%d err=%v", n, err)
	}

	ok, err := client.StepForward()
	if err != nil || !ok {
		t.Fatalf("step: ok=%v err=%v", ok, err)
	}
	if x, z := world.AgentAt(); x != 1 || z != 0 {
		t.Fatalf("world at (%d,%d)", x, z)
	}

	level, err := client.FuelLevel()
	if err != nil || level.Unlimited() || level.Units() != 9 {
		t.Fatalf("fuel level: %+v err=%v", level, err)
	}

	// Withdraw fails while facing away from the depot.
	if ok, err := client.WithdrawForward(1); err != nil || ok {
		t.Fatalf("withdraw facing field: ok=%v err=%v", ok, err)
	}
	if err := client.SelectSlot(0); err == nil {
		t.Fatalf("expected bad slot rejected")
	}
}

func TestCoverageRunOverWire(t *testing.T) {
	world, url := startField(t, field.Config{
		Width: 3, Length: 2, FuelUnits: 0,
		Crops: map[field.Cell]string{
			{X: 0, Z: 0}: field.CropMelon,
			{X: 1, Z: 0}: field.CropMelonStem,
			{X: 2, Z: 0}: field.CropPumpkin,
			{X: 1, Z: 1}: field.CropMelon,
		},
		DepotStock: []field.Stack{{ID: field.ItemBiofuel, Count: 4}},
	})
	client, err := actuator.Dial(url, "itest")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	tracker := pose.NewTracker(client)
	mover := motion.NewMover(client, tracker, motion.Config{Sleep: func(time.Duration) {}})
	navigator := nav.New(tracker, mover)
	cargoMgr := cargo.NewManager(client, tracker)
	fuelMgr := fuel.NewManager(client, cargoMgr, fuel.Config{SafetyBuffer: 5})
	cls := harvest.NewClassifier([]string{field.CropMelon, field.CropPumpkin}, "melon", "stem")
	ctrl := coverage.NewController(tracker, mover, navigator, cargoMgr, fuelMgr,
		harvest.NewPolicy(client, cls), nil, nil)

	report, err := ctrl.Run(context.Background(), coverage.Task{Width: 3, Length: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Cells != 6 || report.Harvested != 3 {
		t.Fatalf("report %+v", report)
	}
	if report.FuelBurned == 0 {
		t.Fatalf("expected a depot refuel on an empty tank")
	}
	if x, z := world.AgentAt(); x != 0 || z != 0 {
		t.Fatalf("agent finished at (%d,%d), want home", x, z)
	}
	if world.AgentFacing() != "EAST" {
		t.Fatalf("agent finished facing %s", world.AgentFacing())
	}
	// Everything harvested reached the depot; the stem stayed planted.
	if got := world.DepotCount(field.CropMelon); got != 2 {
		t.Fatalf("depot melons %d, want 2", got)
	}
	if got := world.DepotCount(field.CropPumpkin); got != 1 {
		t.Fatalf("depot pumpkins %d, want 1", got)
	}
	if _, ok := world.CropAt(field.Cell{X: 1, Z: 0}); !ok {
		t.Fatalf("stem was harvested")
	}
}
