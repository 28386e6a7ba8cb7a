package harvest_test

import (
	"testing"

	"fieldharvest.ai/internal/agent/harvest"
	"fieldharvest.ai/internal/sim/field"
)

func defaultClassifier() harvest.Classifier {
	return harvest.NewClassifier([]string{"crop:melon", "crop:pumpkin"}, "melon", "stem")
}

func TestClassifier(t *testing.T) {
	cls := defaultClassifier()
	cases := []struct {
		identity string
		want     bool
	}{
		{"crop:melon", true},
		{"crop:pumpkin", true},          // allow-list exact hit
		{"crop:golden_melon", true},     // keyword hit
		{"crop:melon_stem", false},      // growth stage excluded
		{"crop:wheat", false},           // unknown
		{"", false},                     // nothing there
		{"crop:pumpkin_stem", false},    // not allow-listed, no keyword
	}
	for _, c := range cases {
		if got := cls.Harvestable(c.identity); got != c.want {
			t.Fatalf("Harvestable(%q) = %v, want %v", c.identity, got, c.want)
		}
	}
}

func TestClassifierWithoutKeyword(t *testing.T) {
	cls := harvest.NewClassifier([]string{"crop:melon"}, "", "")
	if !cls.Harvestable("crop:melon") {
		t.Fatalf("allow-list entry rejected")
	}
	if cls.Harvestable("crop:melonish") {
		t.Fatalf("keyword matching should be off when include is empty")
	}
}

func TestHarvestCell(t *testing.T) {
	w := field.New(field.Config{
		Width: 3, Length: 1, FuelUnlimited: true,
		Crops: map[field.Cell]string{
			{X: 0, Z: 0}: field.CropMelon,
			{X: 1, Z: 0}: field.CropMelonStem,
		},
	})
	p := harvest.NewPolicy(w, defaultClassifier())

	// Mature crop: harvested and stowed.
	harvested, identity, err := p.HarvestCell()
	if err != nil || !harvested || identity != field.CropMelon {
		t.Fatalf("mature cell: harvested=%v identity=%q err=%v", harvested, identity, err)
	}
	if _, ok := w.CropAt(field.Cell{X: 0, Z: 0}); ok {
		t.Fatalf("mature crop still in the ground")
	}
	if got := w.SlotStack(1); got.ID != field.CropMelon || got.Count != 1 {
		t.Fatalf("harvest not stowed: %+v", got)
	}

	// Growth stage: left alone.
	if ok, _ := w.StepForward(); !ok {
		t.Fatalf("step failed")
	}
	harvested, identity, err = p.HarvestCell()
	if err != nil || harvested {
		t.Fatalf("stem cell: harvested=%v identity=%q err=%v", harvested, identity, err)
	}
	if _, ok := w.CropAt(field.Cell{X: 1, Z: 0}); !ok {
		t.Fatalf("stem removed from the ground")
	}

	// Empty cell: no-op.
	if ok, _ := w.StepForward(); !ok {
		t.Fatalf("step failed")
	}
	harvested, _, err = p.HarvestCell()
	if err != nil || harvested {
		t.Fatalf("empty cell: harvested=%v err=%v", harvested, err)
	}
}
