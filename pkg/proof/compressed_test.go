package proof

import (
	"testing"

	"github.com/fanzheng1729/hana/pkg/store"
)

func sampleLabels() ([]*labelRef, *store.Hypothesis, *store.Hypothesis, *store.Assertion) {
	h1 := &store.Hypothesis{Label: "wph"}
	h2 := &store.Hypothesis{Label: "wps"}
	a1 := &store.Assertion{Label: "ax-mp"}
	return []*labelRef{HypRef(h1), HypRef(h2), ThmRef(a1)}, h1, h2, a1
}

func TestDecodeCompressedBasic(t *testing.T) {
	labels, h1, h2, a1 := sampleLabels()

	// "ABC" decodes to labels[0], labels[1], labels[2].
	steps, err := DecodeCompressed("th1", labels, "ABC")
	if err != nil {
		t.Fatalf("DecodeCompressed: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("got %d steps; want 3", len(steps))
	}
	if steps[0].Tag != store.StepHyp || steps[0].Hyp != h1 {
		t.Errorf("step 0 = %+v; want HYP %v", steps[0], h1)
	}
	if steps[1].Tag != store.StepHyp || steps[1].Hyp != h2 {
		t.Errorf("step 1 = %+v; want HYP %v", steps[1], h2)
	}
	if steps[2].Tag != store.StepThm || steps[2].Thm != a1 {
		t.Errorf("step 2 = %+v; want THM %v", steps[2], a1)
	}
}

func TestDecodeCompressedSaveAndLoad(t *testing.T) {
	labels, _, _, _ := sampleLabels()

	// 'Z' right after a completed number ('A') emits a SAVE for that number.
	steps, err := DecodeCompressed("th1", labels, "AZ")
	if err != nil {
		t.Fatalf("DecodeCompressed: %v", err)
	}
	if len(steps) != 2 || steps[0].Tag != store.StepHyp || steps[1].Tag != store.StepSave {
		t.Fatalf("got %+v; want [HYP, SAVE]", steps)
	}

	// A number beyond len(labels) is a LOAD of the (number - len(labels) - 1)th save.
	steps, err = DecodeCompressed("th1", labels, "D")
	if err != nil {
		t.Fatalf("DecodeCompressed: %v", err)
	}
	if len(steps) != 1 || steps[0].Tag != store.StepLoad || steps[0].Index != 0 {
		t.Fatalf("got %+v; want a single LOAD(0)", steps)
	}
}

func TestDecodeCompressedStrayZ(t *testing.T) {
	labels, _, _, _ := sampleLabels()
	if _, err := DecodeCompressed("th1", labels, "ZA"); err == nil {
		t.Fatal("expected an error for a leading Z with no preceding number")
	}
}

func TestDecodeCompressedUnterminated(t *testing.T) {
	labels, _, _, _ := sampleLabels()
	if _, err := DecodeCompressed("th1", labels, "U"); err == nil {
		t.Fatal("expected an error for a stream ending mid-number")
	}
}

func TestDecodeCompressedBadCharacter(t *testing.T) {
	labels, _, _, _ := sampleLabels()
	if _, err := DecodeCompressed("th1", labels, "?"); err == nil {
		t.Fatal("expected an error for an invalid letter")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	labels, h1, h2, a1 := sampleLabels()
	steps := []store.Step{
		store.HypStep(h1),
		store.HypStep(h2),
		store.SaveStep(),
		store.ThmStep(a1),
		store.LoadStep(0),
	}

	letters, err := EncodeCompressed(steps, labels)
	if err != nil {
		t.Fatalf("EncodeCompressed: %v", err)
	}

	got, err := DecodeCompressed("th1", labels, letters)
	if err != nil {
		t.Fatalf("DecodeCompressed(%q): %v", letters, err)
	}
	if len(got) != len(steps) {
		t.Fatalf("round trip produced %d steps; want %d", len(got), len(steps))
	}
	for i := range steps {
		if got[i].Tag != steps[i].Tag {
			t.Errorf("step %d tag = %v; want %v", i, got[i].Tag, steps[i].Tag)
		}
	}
}

func TestEncodeCompressedUnknownLabel(t *testing.T) {
	labels, _, _, _ := sampleLabels()
	stray := &store.Hypothesis{Label: "wch"}
	_, err := EncodeCompressed([]store.Step{store.HypStep(stray)}, labels)
	if err == nil {
		t.Fatal("expected an error encoding a step whose label is not in the label list")
	}
}

func TestEncodeNumberRoundTripsAcrossRadixBoundary(t *testing.T) {
	labels, _, _, _ := sampleLabels()

	// Encoding a LOAD whose raw number crosses 20 (the largest value a
	// single letter encodes; 21 is the first needing a base-5
	// continuation digit) must still decode back to the same LOAD index.
	for _, idx := range []int{0, 18, 19, 20, 100} {
		step := store.LoadStep(idx)
		letters, err := EncodeCompressed([]store.Step{step}, labels)
		if err != nil {
			t.Fatalf("EncodeCompressed(LOAD(%d)): %v", idx, err)
		}
		got, err := DecodeCompressed("th1", labels, letters)
		if err != nil {
			t.Fatalf("DecodeCompressed(%q): %v", letters, err)
		}
		if len(got) != 1 || got[0].Tag != store.StepLoad || got[0].Index != idx {
			t.Fatalf("round trip of LOAD(%d) via %q gave %+v", idx, letters, got)
		}
	}
}
